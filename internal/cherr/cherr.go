// Package cherr defines the error-kind taxonomy shared by every stage of
// the planner pipeline, built the way the teacher's auth package builds
// its own error kinds: one errors.Kind per failure class, created once and
// reused via New/Is.
package cherr

import "gopkg.in/src-d/go-errors.v1"

// User-facing error kinds. These may carry a free-form hint (see Hint).
var (
	ErrParse        = errors.NewKind("parse error: %s")
	ErrCatalog      = errors.NewKind("catalog error: %s")
	ErrPlanning     = errors.NewKind("planning error: %s")
	ErrResolver     = errors.NewKind("resolver error: %s")
	ErrRender       = errors.NewKind("render error: %s")
	ErrNotImpl      = errors.NewKind("not implemented: %s")
)

// Internal error kinds. These indicate a planner bug, not a user mistake,
// and never carry a hint.
var (
	ErrAnalyzer  = errors.NewKind("analyzer invariant violated in pass %q: %s")
	ErrOptimizer = errors.NewKind("optimizer invariant violated in pass %q: %s")
)

// Hint wraps a user-facing error with a free-form suggestion string, per
// spec's propagation policy: user errors (parse, catalog, planning,
// resolver) carry a hint; internal errors do not.
type Hint struct {
	Err  error
	Text string
}

func (h *Hint) Error() string {
	return h.Err.Error() + " (hint: " + h.Text + ")"
}

func (h *Hint) Unwrap() error {
	return h.Err
}

// WithHint attaches a hint to a user-facing error.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	return &Hint{Err: err, Text: hint}
}
