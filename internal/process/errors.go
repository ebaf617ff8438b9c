package process

import "errors"

// #region sentinels
// ErrStructural is the root of all malformed-definition errors discovered at
// evaluation time. errors.Is(err, ErrStructural) matches any of them.
var ErrStructural = errors.New("malformed process definition")

// Structural error causes. Each wraps ErrStructural.
var (
	// ErrNoOutcomes reports an action with zero outcomes in a variant that
	// requires uncertainty modeling.
	ErrNoOutcomes = wrapStructural("action has no outcomes")

	// ErrEmptyTransition reports an outcome whose transition has no targets.
	ErrEmptyTransition = wrapStructural("outcome has no target transitions")

	// ErrInvalidOutcome reports an outcome choice that does not fit the
	// action: an index out of range, or a nature distribution whose length
	// does not match the action's outcome count.
	ErrInvalidOutcome = wrapStructural("invalid outcome choice")
)

// ErrSingularSystem reports that the occupancy-frequency linear system has no
// unique solution (e.g. discount >= 1 on a non-contracting chain).
var ErrSingularSystem = errors.New("occupancy-frequency system is singular")

// ErrIndexOutOfRange reports a negative or otherwise invalid state, action,
// or outcome identifier passed across the public API.
var ErrIndexOutOfRange = errors.New("index out of range")

// #endregion sentinels

// #region helpers
type structuralCause struct {
	msg string
}

func (e *structuralCause) Error() string { return e.msg }

func (e *structuralCause) Unwrap() error { return ErrStructural }

func wrapStructural(msg string) error {
	return &structuralCause{msg: msg}
}

// #endregion helpers
