// Package transform provides the structural-sharing convention every
// analyzer and optimizer pass follows: a pass returns either the same
// plan handle it was given (SameTree) or a freshly built one (NewTree),
// never mutating in place. Ported from the teacher's sql/transform
// package (TreeIdentity / SameTree / NewTree), which is the Go-idiomatic
// equivalent of spec.md §3's Rust Changed(new)/Unchanged(old) convention.
package transform

// TreeIdentity records whether a rewrite produced a new tree or returned
// its input unchanged.
type TreeIdentity bool

const (
	// SameTree means the rewrite returned its input unchanged; callers must
	// not rebuild any ancestor on the strength of this child alone.
	SameTree TreeIdentity = false
	// NewTree means the rewrite produced a different plan; every ancestor
	// on the path back to the root must rebuild to incorporate it.
	NewTree TreeIdentity = true
)

// Combine folds a set of child TreeIdentity results into the identity an
// ancestor should report: NewTree if any child changed, SameTree only if
// every child is unchanged.
func Combine(ids ...TreeIdentity) TreeIdentity {
	for _, id := range ids {
		if id == NewTree {
			return NewTree
		}
	}
	return SameTree
}

// String renders the identity for debug logging.
func (t TreeIdentity) String() string {
	if t == NewTree {
		return "NewTree"
	}
	return "SameTree"
}
