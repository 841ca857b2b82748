package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func execute(t *testing.T, args ...string) (map[string]any, string, error) {
	t.Helper()
	for _, k := range []string{"TZOLKIN_CONFIG", "TZOLKIN_TABLES_PATH", "TZOLKIN_METRICS_TEXTFILE", "TZOLKIN_METRICS_PREFIX"} {
		t.Setenv(k, "")
	}
	t.Setenv("TZOLKIN_SYNTH_FROM_YEAR", "2020")
	t.Setenv("TZOLKIN_SYNTH_TO_YEAR", "2026")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()

	var doc map[string]any
	if strings.HasPrefix(strings.TrimSpace(out.String()), "{") {
		if jerr := json.Unmarshal(out.Bytes(), &doc); jerr != nil {
			t.Fatalf("output is not JSON: %v\n%s", jerr, out.String())
		}
	}
	return doc, out.String(), err
}

func TestCommands(t *testing.T) {
	Convey("Given the tzolkin command", t, func() {
		Convey("When resolving the anchor date", func() {
			doc, _, err := execute(t, "kin", "2023-07-26")
			So(err, ShouldBeNil)
			So(doc["kin"], ShouldEqual, 1.0)
			So(doc["source"], ShouldEqual, "table")
			So(doc["name"], ShouldEqual, "Red Magnetic Dragon")
		})

		Convey("When resolving a date outside the synthesized years", func() {
			doc, _, err := execute(t, "kin", "2030-01-01")
			So(err, ShouldBeNil)
			So(doc["source"], ShouldEqual, "arithmetic")
		})

		Convey("When combining KINs", func() {
			doc, _, err := execute(t, "composite", "200", "60")
			So(err, ShouldBeNil)
			So(doc["kin"], ShouldEqual, 260.0)
		})

		Convey("When computing the goddess from a KIN flag", func() {
			doc, _, err := execute(t, "goddess", "--kin", "1")
			So(err, ShouldBeNil)
			So(doc["kin"], ShouldEqual, 1.0)
			So(doc, ShouldContainKey, "goddess")
		})

		Convey("When converting the Day Out of Time", func() {
			doc, _, err := execute(t, "longdate", "2023-07-25")
			So(err, ShouldBeNil)
			So(doc["key"], ShouldEqual, "0.0")
		})

		Convey("When asking for a PSI row the tables do not hold", func() {
			_, out, err := execute(t, "psi", "2023-07-26")
			So(err, ShouldBeNil)
			So(strings.TrimSpace(out), ShouldEqual, "null")
		})

		Convey("When building a profile", func() {
			doc, _, err := execute(t, "profile", "2023-07-26", "--castle-years", "3")
			So(err, ShouldBeNil)
			So(doc["date"], ShouldEqual, "2023-07-26")
			So(doc["castle"], ShouldHaveLength, 3)
		})

		Convey("When auditing the synthesized tables", func() {
			doc, _, err := execute(t, "audit")
			So(err, ShouldBeNil)
			So(doc, ShouldContainKey, "stats")
		})

		Convey("When metrics_textfile is set", func() {
			path := filepath.Join(t.TempDir(), "tzolkin.prom")
			t.Setenv("TZOLKIN_METRICS_TEXTFILE", path)
			var out bytes.Buffer
			root := newRootCmd()
			root.SetOut(&out)
			root.SetArgs([]string{"oracle", "--kin", "7"})
			So(root.Execute(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `tzolkin_engine_calculations_total{operation="oracle"}`)
		})

		Convey("When metrics are prefixed by config", func() {
			path := filepath.Join(t.TempDir(), "prefixed.prom")
			t.Setenv("TZOLKIN_METRICS_TEXTFILE", path)
			t.Setenv("TZOLKIN_METRICS_PREFIX", "cli")
			root := newRootCmd()
			root.SetOut(&bytes.Buffer{})
			root.SetArgs([]string{"goddess", "--kin", "7"})
			So(root.Execute(), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `tzolkin_engine_cli_calculations_total{operation="goddess"} 1`)
		})

		Convey("When the date is malformed", func() {
			_, _, err := execute(t, "kin", "2023-02-30")
			So(err, ShouldNotBeNil)
		})

		Convey("When a KIN is out of range", func() {
			_, _, err := execute(t, "composite", "0", "5")
			So(err, ShouldNotBeNil)
		})
	})
}
