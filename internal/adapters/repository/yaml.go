package repository

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/internal/domain/secondary"
)

// yamlTables is the on-disk shape of a YAML table file.
type yamlTables struct {
	YearStart   map[int]int               `yaml:"year_start"`
	MonthOffset map[int]int               `yaml:"month_offset"`
	Psi         []yamlPsi                 `yaml:"psi_bank"`
	Matrix      map[string]map[string]int `yaml:"matrix"`
	DateMatrix  map[string]string         `yaml:"date_matrix"`
	WeekKey     map[string]string         `yaml:"week_key"`
	Heptad      map[string]string         `yaml:"heptad_prayer"`
}

type yamlPsi struct {
	Month int    `yaml:"month"`
	Day   int    `yaml:"day"`
	Kin   int    `yaml:"kin"`
	Label string `yaml:"label"`
}

// LoadYAML reads tables from a YAML file. Sections left out load as empty.
func LoadYAML(path string, opts ...Option) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return ParseYAML(data, opts...)
}

// ParseYAML builds tables from YAML content.
func ParseYAML(data []byte, opts ...Option) (*Tables, error) {
	var doc yamlTables
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	src := Source{
		YearStart:     doc.YearStart,
		MonthOffset:   doc.MonthOffset,
		Psi:           make(map[MonthDay]secondary.PsiRow, len(doc.Psi)),
		Grids:         make(map[matrix.Name]map[matrix.Position]int, len(doc.Matrix)),
		DatePositions: make(map[string]matrix.Position, len(doc.DateMatrix)),
		WeekKeys:      make(map[kin.Color]string, len(doc.WeekKey)),
		HeptadPrayers: doc.Heptad,
	}
	for week, sentence := range doc.WeekKey {
		src.WeekKeys[kin.Color(week)] = sentence
	}
	for _, row := range doc.Psi {
		md := MonthDay{Month: row.Month, Day: row.Day}
		if _, dup := src.Psi[md]; dup {
			return nil, fmt.Errorf("%w: %s %d/%d listed twice", ErrInvalidTable, TablePsi, row.Month, row.Day)
		}
		src.Psi[md] = secondary.PsiRow{Kin: row.Kin, Label: row.Label}
	}
	for name, cells := range doc.Matrix {
		grid := make(map[matrix.Position]int, len(cells))
		for raw, v := range cells {
			p, err := matrix.ParsePosition(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s grid %s: %w", ErrInvalidTable, TableMatrixCell, name, err)
			}
			grid[p] = v
		}
		src.Grids[matrix.Name(name)] = grid
	}
	for key, raw := range doc.DateMatrix {
		p, err := matrix.ParsePosition(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidTable, TableDateMatrix, key, err)
		}
		src.DatePositions[key] = p
	}
	return New(src, opts...)
}
