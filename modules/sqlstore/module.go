// Package sqlstore provides the "sql" store kind: datapoints kept in a SQLite
// table of (name, ts, value) rows, read either as the latest value per name
// or as series aligned on a shared timestamp index.
package sqlstore

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/specialistvlad/synthtags/internal/registry"
	"github.com/specialistvlad/synthtags/pkg/resolver"
)

// Kind is the store kind this module registers.
const Kind = "sql"

const (
	// ModeLatest resolves each name to its last point.
	ModeLatest = "latest"
	// ModeSeries resolves each name to a series.
	ModeSeries = "series"

	DefaultTable = "datapoints"
	DefaultLimit = 10
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments of a sql store block. Start and End are RFC
// 3339 timestamps or durations relative to now, such as "-1h".
type Input struct {
	DSN    string   `hcl:"dsn"`
	Table  *string  `hcl:"table,optional"`
	Mode   *string  `hcl:"mode,optional"`
	Start  *string  `hcl:"start,optional"`
	End    *string  `hcl:"end,optional"`
	Limit  *int     `hcl:"limit,optional"`
	FFill  *bool    `hcl:"ffill,optional"`
	FillNA *float64 `hcl:"fillna,optional"`
	Init   *bool    `hcl:"init,optional"`
}

// Options configures a Store.
type Options struct {
	Table string
	Mode  string
	// Start and End bound the timestamps read, both inclusive. Zero means
	// unbounded.
	Start, End time.Time
	// Limit keeps the last Limit timestamps.
	Limit int
	// FFill carries the last known value of a name forward over gaps.
	FFill bool
	// FillNA replaces remaining gaps when set.
	FillNA *float64
	// Init creates the table when it does not exist.
	Init bool
}

// DefaultOptions returns the options of a latest-value store: the last ten
// timestamps, forward filled.
func DefaultOptions() Options {
	return Options{Table: DefaultTable, Mode: ModeLatest, Limit: DefaultLimit, FFill: true}
}

func (o Options) validate() error {
	if !identifier.MatchString(o.Table) {
		return fmt.Errorf("invalid table name %q", o.Table)
	}
	if o.Mode != ModeLatest && o.Mode != ModeSeries {
		return fmt.Errorf("invalid mode %q: must be %q or %q", o.Mode, ModeLatest, ModeSeries)
	}
	if o.Limit < 1 {
		return fmt.Errorf("limit must be positive, got %d", o.Limit)
	}
	if !o.Start.IsZero() && !o.End.IsZero() && o.End.Before(o.Start) {
		return fmt.Errorf("end %s is before start %s", o.End.Format(time.RFC3339), o.Start.Format(time.RFC3339))
	}
	return nil
}

// optionsFromInput applies the block arguments over the defaults. A series
// store does not forward fill unless asked to.
func optionsFromInput(in *Input, now time.Time) (Options, error) {
	opts := DefaultOptions()
	if in.Table != nil {
		opts.Table = *in.Table
	}
	if in.Mode != nil {
		opts.Mode = *in.Mode
		if opts.Mode == ModeSeries {
			opts.FFill = false
		}
	}
	if in.Limit != nil {
		opts.Limit = *in.Limit
	}
	if in.FFill != nil {
		opts.FFill = *in.FFill
	}
	opts.FillNA = in.FillNA
	if in.Init != nil {
		opts.Init = *in.Init
	}

	var err error
	if in.Start != nil {
		if opts.Start, err = parseTime(*in.Start, now); err != nil {
			return Options{}, fmt.Errorf("start: %w", err)
		}
	}
	if in.End != nil {
		if opts.End, err = parseTime(*in.End, now); err != nil {
			return Options{}, fmt.Errorf("end: %w", err)
		}
	}
	return opts, nil
}

func parseTime(s string, now time.Time) (time.Time, error) {
	if s == "now" {
		return now, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(d), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither a duration nor an RFC 3339 time", s)
	}
	return t, nil
}

func createStore(ctx context.Context, input any) (resolver.Store, error) {
	in := input.(*Input)
	opts, err := optionsFromInput(in, time.Now())
	if err != nil {
		return nil, err
	}
	return Open(ctx, in.DSN, opts)
}

// Register registers the store kind with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterStore(Kind, &registry.RegisteredStore{
		NewInput: func() any { return new(Input) },
		CreateFn: createStore,
	})
}
