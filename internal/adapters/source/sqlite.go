package source

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/okian/drawscope/internal/domain/model"

	_ "modernc.org/sqlite"
)

// DefaultTable is the table read by SQLiteSource when none is configured.
const DefaultTable = "draws"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource loads draw rows from a SQLite database. The table holds one
// row per number: draw_date TEXT, slot TEXT, number TEXT. Rows are read in
// rowid order; slot and number order follow first appearance.
type SQLiteSource struct {
	path string
	opts options
}

var _ Source = (*SQLiteSource)(nil)

// NewSQLiteSource creates a source reading the database at path.
func NewSQLiteSource(path string, opts ...Option) *SQLiteSource {
	return &SQLiteSource{path: path, opts: newOptions(opts)}
}

// Name returns the database path and table.
func (s *SQLiteSource) Name() string { return "sqlite:" + s.path + "#" + s.opts.table }

// Load reads every row of the table.
func (s *SQLiteSource) Load(ctx context.Context) (Dataset, error) {
	if !tableName.MatchString(s.opts.table) {
		return Dataset{}, fmt.Errorf("%w: %q: %w", ErrLoad, s.opts.table, ErrInvalidTable)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: open %s: %w", ErrLoad, s.path, err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT draw_date, slot, number FROM %s ORDER BY rowid`, s.opts.table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: query %s: %w", ErrLoad, s.opts.table, err)
	}
	defer rows.Close()

	type day struct {
		label string
		slots slotBuilder
	}
	var days []*day
	byLabel := make(map[string]*day)
	for rows.Next() {
		var label, slot string
		var number sql.NullString
		if err := rows.Scan(&label, &slot, &number); err != nil {
			return Dataset{}, fmt.Errorf("%w: scan: %w", ErrLoad, err)
		}
		d, ok := byLabel[label]
		if !ok {
			d = &day{label: label}
			byLabel[label] = d
			days = append(days, d)
		}
		if number.Valid {
			d.slots.add(slot, []string{number.String})
		}
	}
	if err := rows.Err(); err != nil {
		return Dataset{}, fmt.Errorf("%w: rows: %w", ErrLoad, err)
	}

	c := &collector{parser: s.opts.parser}
	for _, d := range days {
		c.add(d.label, d.slots.slots)
	}
	return c.out, nil
}

// WriteSQLite creates table (if missing) in the database at path and inserts
// one row per number of records inside a single transaction. Dates are
// written with layout, or as the record label when layout is empty.
func WriteSQLite(ctx context.Context, path, table string, records []model.Record, layout string) error {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return fmt.Errorf("%q: %w", table, ErrInvalidTable)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (draw_date TEXT NOT NULL, slot TEXT NOT NULL, number TEXT)`, table)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (draw_date, slot, number) VALUES (?, ?, ?)`, table))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		label := r.Label
		if layout != "" {
			label = r.Date.Format(layout)
		}
		for _, slot := range r.Slots {
			for _, n := range slot.Numbers {
				if _, err := stmt.ExecContext(ctx, label, slot.ID, n); err != nil {
					return fmt.Errorf("insert %s/%s: %w", label, slot.ID, err)
				}
			}
		}
	}
	return tx.Commit()
}
