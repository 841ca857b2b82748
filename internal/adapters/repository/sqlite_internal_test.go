package repository

import (
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOpenSQLite(t *testing.T) {
	Convey("Given a freshly opened database", t, func() {
		conn, err := openSQLite(filepath.Join(t.TempDir(), "pragma.db"))
		So(err, ShouldBeNil)
		defer conn.Close()

		Convey("Then the busy timeout pragma is applied to the connection", func() {
			var timeout int
			So(conn.Get(&timeout, "PRAGMA busy_timeout"), ShouldBeNil)
			So(timeout, ShouldEqual, 5000)
		})
	})
}
