package repository

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okian/tzolkin/internal/domain/kin"
	"github.com/okian/tzolkin/internal/domain/matrix"
	"github.com/okian/tzolkin/internal/domain/secondary"
)

const schema = `
CREATE TABLE IF NOT EXISTS year_start (
	year INTEGER PRIMARY KEY,
	start_kin INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS month_offset (
	month INTEGER PRIMARY KEY,
	days_before INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS psi_bank (
	month INTEGER NOT NULL,
	day INTEGER NOT NULL,
	kin INTEGER NOT NULL,
	label TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (month, day)
);

CREATE TABLE IF NOT EXISTS matrix_cell (
	grid TEXT NOT NULL,
	position TEXT NOT NULL,
	value INTEGER NOT NULL,
	PRIMARY KEY (grid, position)
);

CREATE TABLE IF NOT EXISTS date_matrix (
	long_date TEXT PRIMARY KEY,
	position TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS week_key (
	week TEXT PRIMARY KEY,
	sentence TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS heptad_prayer (
	plasma TEXT PRIMARY KEY,
	prayer TEXT NOT NULL
);
`

type yearRow struct {
	Year     int `db:"year"`
	StartKin int `db:"start_kin"`
}

type monthRow struct {
	Month      int `db:"month"`
	DaysBefore int `db:"days_before"`
}

type psiRow struct {
	Month int    `db:"month"`
	Day   int    `db:"day"`
	Kin   int    `db:"kin"`
	Label string `db:"label"`
}

type cellRow struct {
	Grid     string `db:"grid"`
	Position string `db:"position"`
	Value    int    `db:"value"`
}

type dateRow struct {
	LongDate string `db:"long_date"`
	Position string `db:"position"`
}

type weekKeyRow struct {
	Week     string `db:"week"`
	Sentence string `db:"sentence"`
}

type heptadRow struct {
	Plasma string `db:"plasma"`
	Prayer string `db:"prayer"`
}

func openSQLite(path string) (*sqlx.DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return conn, nil
}

// LoadSQLite reads every table from the SQLite database at path. Tables
// absent from the database load as empty; a missing file is an error.
func LoadSQLite(ctx context.Context, path string, opts ...Option) (*Tables, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	conn, err := openSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer conn.Close()

	present, err := tableNames(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	src := Source{
		YearStart:     map[int]int{},
		MonthOffset:   map[int]int{},
		Psi:           map[MonthDay]secondary.PsiRow{},
		Grids:         map[matrix.Name]map[matrix.Position]int{},
		DatePositions: map[string]matrix.Position{},
		WeekKeys:      map[kin.Color]string{},
		HeptadPrayers: map[string]string{},
	}

	if present[TableYearStart] {
		var rows []yearRow
		if err := conn.SelectContext(ctx, &rows, "SELECT year, start_kin FROM year_start"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, TableYearStart, err)
		}
		for _, r := range rows {
			src.YearStart[r.Year] = r.StartKin
		}
	}

	if present[TableMonthOffset] {
		var rows []monthRow
		if err := conn.SelectContext(ctx, &rows, "SELECT month, days_before FROM month_offset"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, TableMonthOffset, err)
		}
		for _, r := range rows {
			src.MonthOffset[r.Month] = r.DaysBefore
		}
	}

	if present[TablePsi] {
		var rows []psiRow
		if err := conn.SelectContext(ctx, &rows, "SELECT month, day, kin, label FROM psi_bank"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, TablePsi, err)
		}
		for _, r := range rows {
			src.Psi[MonthDay{Month: r.Month, Day: r.Day}] = secondary.PsiRow{Kin: r.Kin, Label: r.Label}
		}
	}

	if present[TableMatrixCell] {
		var rows []cellRow
		if err := conn.SelectContext(ctx, &rows, "SELECT grid, position, value FROM matrix_cell"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, TableMatrixCell, err)
		}
		for _, r := range rows {
			p, err := matrix.ParsePosition(r.Position)
			if err != nil {
				return nil, fmt.Errorf("%w: %s grid %s: %w", ErrInvalidTable, TableMatrixCell, r.Grid, err)
			}
			name := matrix.Name(r.Grid)
			if src.Grids[name] == nil {
				src.Grids[name] = map[matrix.Position]int{}
			}
			src.Grids[name][p] = r.Value
		}
	}

	if present[TableDateMatrix] {
		var rows []dateRow
		if err := conn.SelectContext(ctx, &rows, "SELECT long_date, position FROM date_matrix"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, TableDateMatrix, err)
		}
		for _, r := range rows {
			p, err := matrix.ParsePosition(r.Position)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %q: %w", ErrInvalidTable, TableDateMatrix, r.LongDate, err)
			}
			src.DatePositions[r.LongDate] = p
		}
	}

	if present[TableWeekKey] {
		var rows []weekKeyRow
		if err := conn.SelectContext(ctx, &rows, "SELECT week, sentence FROM week_key"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, TableWeekKey, err)
		}
		for _, r := range rows {
			src.WeekKeys[kin.Color(r.Week)] = r.Sentence
		}
	}

	if present[TableHeptad] {
		var rows []heptadRow
		if err := conn.SelectContext(ctx, &rows, "SELECT plasma, prayer FROM heptad_prayer"); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, TableHeptad, err)
		}
		for _, r := range rows {
			src.HeptadPrayers[r.Plasma] = r.Prayer
		}
	}

	return New(src, opts...)
}

func tableNames(ctx context.Context, conn *sqlx.DB) (map[string]bool, error) {
	var names []string
	if err := conn.SelectContext(ctx, &names, "SELECT name FROM sqlite_master WHERE type = 'table'"); err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	return present, nil
}

// WriteSQLite stores t in the SQLite database at path, creating the schema
// when needed and replacing any rows already present.
func WriteSQLite(ctx context.Context, path string, t *Tables) (err error) {
	if t == nil {
		return errors.New("write sqlite: nil tables")
	}
	conn, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{TableYearStart, TableMonthOffset, TablePsi, TableMatrixCell, TableDateMatrix, TableWeekKey, TableHeptad} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	src := t.Source()
	for y, v := range src.YearStart {
		if _, err = tx.ExecContext(ctx, "INSERT INTO year_start (year, start_kin) VALUES (?, ?)", y, v); err != nil {
			return fmt.Errorf("insert year %d: %w", y, err)
		}
	}
	for m, v := range src.MonthOffset {
		if _, err = tx.ExecContext(ctx, "INSERT INTO month_offset (month, days_before) VALUES (?, ?)", m, v); err != nil {
			return fmt.Errorf("insert month %d: %w", m, err)
		}
	}
	for md, row := range src.Psi {
		if _, err = tx.ExecContext(ctx, "INSERT INTO psi_bank (month, day, kin, label) VALUES (?, ?, ?, ?)",
			md.Month, md.Day, row.Kin, row.Label); err != nil {
			return fmt.Errorf("insert psi %d/%d: %w", md.Month, md.Day, err)
		}
	}
	for name, cells := range src.Grids {
		for p, v := range cells {
			if _, err = tx.ExecContext(ctx, "INSERT INTO matrix_cell (grid, position, value) VALUES (?, ?, ?)",
				string(name), p.String(), v); err != nil {
				return fmt.Errorf("insert %s cell %s: %w", name, p, err)
			}
		}
	}
	for key, p := range src.DatePositions {
		if _, err = tx.ExecContext(ctx, "INSERT INTO date_matrix (long_date, position) VALUES (?, ?)", key, p.String()); err != nil {
			return fmt.Errorf("insert date %s: %w", key, err)
		}
	}
	for week, sentence := range src.WeekKeys {
		if _, err = tx.ExecContext(ctx, "INSERT INTO week_key (week, sentence) VALUES (?, ?)", string(week), sentence); err != nil {
			return fmt.Errorf("insert week key %s: %w", week, err)
		}
	}
	for plasma, prayer := range src.HeptadPrayers {
		if _, err = tx.ExecContext(ctx, "INSERT INTO heptad_prayer (plasma, prayer) VALUES (?, ?)", plasma, prayer); err != nil {
			return fmt.Errorf("insert heptad prayer %s: %w", plasma, err)
		}
	}

	return tx.Commit()
}
