package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/specialistvlad/synthtags/internal/ctxlog"
	"github.com/specialistvlad/synthtags/pkg/resolver"
	"github.com/specialistvlad/synthtags/pkg/value"
	"github.com/zclconf/go-cty/cty"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS %s (
	name  TEXT    NOT NULL,
	ts    INTEGER NOT NULL,
	value REAL,
	PRIMARY KEY (name, ts)
)`

// Store reads datapoints from a SQLite table. Timestamps are stored as Unix
// milliseconds; a NULL value is a gap.
type Store struct {
	db     *sql.DB
	opts   Options
	logger *slog.Logger
}

// Open connects to the SQLite database at dsn.
func Open(ctx context.Context, dsn string, opts Options) (*Store, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", dsn, err)
	}
	s := &Store{
		db:     db,
		opts:   opts,
		logger: ctxlog.FromContext(ctx).With("store", Kind, "table", opts.Table, "mode", opts.Mode),
	}
	if opts.Init {
		if _, err := db.ExecContext(ctx, fmt.Sprintf(schema, opts.Table)); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating table %s: %w", opts.Table, err)
		}
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert writes one datapoint, replacing an existing one at the same
// timestamp. A nil value records a gap.
func (s *Store) Insert(ctx context.Context, name string, ts time.Time, v *float64) error {
	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (name, ts, value) VALUES (?, ?, ?)", s.opts.Table)
	var arg any
	if v != nil {
		arg = *v
	}
	_, err := s.db.ExecContext(ctx, query, name, ts.UnixMilli(), arg)
	return err
}

// Fetch reads the datapoints of names, aligns them on the union of their
// timestamps and applies the fill options. Names without any datapoint get
// a column of gaps.
func (s *Store) Fetch(ctx context.Context, names []string) (resolver.Result, error) {
	if len(names) == 0 {
		return resolver.Result{Values: map[string]cty.Value{}}, nil
	}
	start := time.Now()
	f, err := s.query(ctx, names)
	if err != nil {
		return resolver.Result{}, err
	}
	if s.opts.FFill {
		f.ffill()
	}
	if s.opts.FillNA != nil {
		f.fillna(*s.opts.FillNA)
	}
	s.logger.Debug("Queried datapoints", "names", len(names), "timestamps", len(f.stamps), "duration", time.Since(start))

	if s.opts.Mode == ModeLatest {
		return f.latest(), nil
	}
	return f.series(), nil
}

func (s *Store) query(ctx context.Context, names []string) (*frame, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT name, ts, value FROM %s WHERE name IN (?%s)", s.opts.Table, strings.Repeat(", ?", len(names)-1))
	args := make([]any, 0, len(names)+2)
	for _, name := range names {
		args = append(args, name)
	}
	if !s.opts.Start.IsZero() {
		b.WriteString(" AND ts >= ?")
		args = append(args, s.opts.Start.UnixMilli())
	}
	if !s.opts.End.IsZero() {
		b.WriteString(" AND ts <= ?")
		args = append(args, s.opts.End.UnixMilli())
	}
	b.WriteString(" ORDER BY ts")

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying datapoints: %w", err)
	}
	defer rows.Close()

	cells := make(map[string]map[int64]*float64, len(names))
	seen := make(map[int64]struct{})
	for rows.Next() {
		var (
			name string
			ts   int64
			v    sql.NullFloat64
		)
		if err := rows.Scan(&name, &ts, &v); err != nil {
			return nil, fmt.Errorf("scanning datapoint: %w", err)
		}
		if cells[name] == nil {
			cells[name] = make(map[int64]*float64)
		}
		if v.Valid {
			cells[name][ts] = &v.Float64
		}
		seen[ts] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading datapoints: %w", err)
	}

	stamps := make([]int64, 0, len(seen))
	for ts := range seen {
		stamps = append(stamps, ts)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })
	if len(stamps) > s.opts.Limit {
		stamps = stamps[len(stamps)-s.opts.Limit:]
	}
	if len(stamps) == 0 {
		var label int64
		if !s.opts.Start.IsZero() {
			label = s.opts.Start.UnixMilli()
		}
		stamps = []int64{label}
	}

	f := &frame{stamps: stamps, columns: make(map[string][]*float64, len(names))}
	for _, name := range names {
		col := make([]*float64, len(stamps))
		for i, ts := range stamps {
			col[i] = cells[name][ts]
		}
		f.columns[name] = col
	}
	return f, nil
}

// frame is a table of datapoints: one row per timestamp, one column per
// name, nil cells being gaps.
type frame struct {
	stamps  []int64
	columns map[string][]*float64
}

func (f *frame) ffill() {
	for _, col := range f.columns {
		for i := 1; i < len(col); i++ {
			if col[i] == nil {
				col[i] = col[i-1]
			}
		}
	}
}

func (f *frame) fillna(v float64) {
	for _, col := range f.columns {
		for i := range col {
			if col[i] == nil {
				col[i] = &v
			}
		}
	}
}

func (f *frame) latest() resolver.Result {
	res := resolver.Result{Values: make(map[string]cty.Value, len(f.columns))}
	for name, col := range f.columns {
		res.Values[name] = cell(col[len(col)-1])
	}
	return res
}

func (f *frame) series() resolver.Result {
	res := resolver.Result{
		Values: make(map[string]cty.Value, len(f.columns)),
		Index:  make(value.Index, len(f.stamps)),
	}
	for i, ts := range f.stamps {
		res.Index[i] = cty.NumberIntVal(ts)
	}
	for name, col := range f.columns {
		points := make([]cty.Value, len(col))
		for i, c := range col {
			points[i] = cell(c)
		}
		res.Values[name] = cty.ListVal(points)
	}
	return res
}

func cell(c *float64) cty.Value {
	if c == nil {
		return cty.NullVal(cty.Number)
	}
	return cty.NumberFloatVal(*c)
}
