package tag

import (
	"fmt"
	"log/slog"
)

// InvalidUseError is returned when a Tag is asked for a native boolean.
// Branching on an expression in Go code would evaluate only one side of the
// intended formula; use And, Or and Not to keep both sides in the tree.
type InvalidUseError struct {
	Tag string
}

func (e *InvalidUseError) Error() string {
	return fmt.Sprintf("tag %q has no native truth value: combine tags with And, Or and Not instead", e.Tag)
}

type truthConfig struct {
	force  bool
	logger *slog.Logger
}

// TruthOption configures Truth.
type TruthOption func(*truthConfig)

// ForceTruth makes Truth report true instead of failing. A non-nil logger
// receives a warning each time. Meant for interactive debugging only.
func ForceTruth(logger *slog.Logger) TruthOption {
	return func(c *truthConfig) {
		c.force = true
		c.logger = logger
	}
}

// Truth fails with *InvalidUseError unless ForceTruth is given.
func (t *Tag) Truth(opts ...TruthOption) (bool, error) {
	var cfg truthConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.force {
		return false, &InvalidUseError{Tag: t.name}
	}
	if cfg.logger != nil {
		cfg.logger.Warn("Forcing truth value of a tag; the expression is not evaluated.", "tag", t.name)
	}
	return true, nil
}
