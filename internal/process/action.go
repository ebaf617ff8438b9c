package process

import "fmt"

// #region outcome
// Outcome is one realization of nature's choice for an action. It owns
// exactly one transition. For robust actions it additionally carries a base
// distribution weight consumed by solving collaborators, not by the
// evaluation path here.
type Outcome struct {
	transition Transition
	weight     float64
}

// Transition returns the outcome's transition.
func (o *Outcome) Transition() *Transition { return &o.transition }

// Weight returns the base-distribution weight of the outcome.
func (o *Outcome) Weight() float64 { return o.weight }

// SetWeight sets the base-distribution weight of the outcome.
func (o *Outcome) SetWeight(w float64) { o.weight = w }

// #endregion outcome

// #region plain-action
// PlainAction is an action whose uncertainty is resolved by a single outcome
// index: nature picks exactly one of the ordered outcomes.
type PlainAction struct {
	outcomes []Outcome
}

// OutcomeCount returns the number of outcomes.
func (a *PlainAction) OutcomeCount() int { return len(a.outcomes) }

// Outcome returns the outcome at index i.
func (a *PlainAction) Outcome(i int) (*Outcome, error) {
	if i < 0 || i >= len(a.outcomes) {
		return nil, fmt.Errorf("outcome %d of %d: %w", i, len(a.outcomes), ErrIndexOutOfRange)
	}
	return &a.outcomes[i], nil
}

// CreateOutcome grows the action so that outcome i exists and returns it.
// Intermediate outcomes are created with empty transitions.
func (a *PlainAction) CreateOutcome(i int) (*Outcome, error) {
	if i < 0 {
		return nil, fmt.Errorf("outcome %d: %w", i, ErrIndexOutOfRange)
	}
	for len(a.outcomes) <= i {
		a.outcomes = append(a.outcomes, Outcome{})
	}
	return &a.outcomes[i], nil
}

// MeanTransition returns the transition of the chosen outcome. An action
// with no outcomes contributes an empty transition; an existing outcome with
// no targets is a structural error.
func (a *PlainAction) MeanTransition(choice int) (Transition, error) {
	if len(a.outcomes) == 0 {
		return Transition{}, nil
	}
	if choice < 0 || choice >= len(a.outcomes) {
		return Transition{}, fmt.Errorf("outcome %d of %d: %w", choice, len(a.outcomes), ErrInvalidOutcome)
	}
	tr := &a.outcomes[choice].transition
	if tr.Len() == 0 {
		return Transition{}, fmt.Errorf("outcome %d: %w", choice, ErrEmptyTransition)
	}
	return *tr, nil
}

// MeanReward returns the expected reward of the chosen outcome. An action
// with no outcomes contributes zero.
func (a *PlainAction) MeanReward(choice int) (float64, error) {
	if len(a.outcomes) == 0 {
		return 0, nil
	}
	if choice < 0 || choice >= len(a.outcomes) {
		return 0, fmt.Errorf("outcome %d of %d: %w", choice, len(a.outcomes), ErrInvalidOutcome)
	}
	tr := &a.outcomes[choice].transition
	if tr.Len() == 0 {
		return 0, fmt.Errorf("outcome %d: %w", choice, ErrEmptyTransition)
	}
	return tr.ExpectedReward(), nil
}

// IsOutcomeCorrect reports whether choice is a valid outcome index. This is
// a structural range check only.
func (a *PlainAction) IsOutcomeCorrect(choice int) bool {
	return choice >= 0 && choice < len(a.outcomes)
}

// #endregion plain-action

// #region weighted-action
// WeightedAction is an action whose outcomes form an ambiguity set: nature
// picks a distribution over the ordered outcomes. The outcomes' weights form
// the base distribution and threshold bounds nature's L1 deviation from it;
// both are metadata for solving collaborators.
type WeightedAction struct {
	outcomes  []Outcome
	threshold float64
}

// OutcomeCount returns the number of outcomes.
func (a *WeightedAction) OutcomeCount() int { return len(a.outcomes) }

// Outcome returns the outcome at index i.
func (a *WeightedAction) Outcome(i int) (*Outcome, error) {
	if i < 0 || i >= len(a.outcomes) {
		return nil, fmt.Errorf("outcome %d of %d: %w", i, len(a.outcomes), ErrIndexOutOfRange)
	}
	return &a.outcomes[i], nil
}

// CreateOutcome grows the action so that outcome i exists and returns it.
func (a *WeightedAction) CreateOutcome(i int) (*Outcome, error) {
	if i < 0 {
		return nil, fmt.Errorf("outcome %d: %w", i, ErrIndexOutOfRange)
	}
	for len(a.outcomes) <= i {
		a.outcomes = append(a.outcomes, Outcome{})
	}
	return &a.outcomes[i], nil
}

// Threshold returns the L1 radius of the ambiguity set.
func (a *WeightedAction) Threshold() float64 { return a.threshold }

// SetThreshold sets the L1 radius of the ambiguity set.
func (a *WeightedAction) SetThreshold(v float64) { a.threshold = v }

// Distribution returns the base distribution formed by the outcome weights.
func (a *WeightedAction) Distribution() []float64 {
	dist := make([]float64, len(a.outcomes))
	for i := range a.outcomes {
		dist[i] = a.outcomes[i].weight
	}
	return dist
}

// MeanTransition returns the mixture of outcome transitions under the given
// nature distribution: probabilities are weighted sums and rewards are
// probability-weighted averages across outcomes.
func (a *WeightedAction) MeanTransition(dist []float64) (Transition, error) {
	if len(a.outcomes) == 0 {
		return Transition{}, fmt.Errorf("weighted action: %w", ErrNoOutcomes)
	}
	if len(dist) != len(a.outcomes) {
		return Transition{}, fmt.Errorf("distribution length %d for %d outcomes: %w", len(dist), len(a.outcomes), ErrInvalidOutcome)
	}
	var mixed Transition
	for o, w := range dist {
		if w == 0 {
			continue
		}
		tr := &a.outcomes[o].transition
		if tr.Len() == 0 {
			return Transition{}, fmt.Errorf("outcome %d: %w", o, ErrEmptyTransition)
		}
		mixed.addScaled(tr, w)
	}
	return mixed, nil
}

// MeanReward returns the mixture of outcome expected rewards under the given
// nature distribution.
func (a *WeightedAction) MeanReward(dist []float64) (float64, error) {
	if len(a.outcomes) == 0 {
		return 0, fmt.Errorf("weighted action: %w", ErrNoOutcomes)
	}
	if len(dist) != len(a.outcomes) {
		return 0, fmt.Errorf("distribution length %d for %d outcomes: %w", len(dist), len(a.outcomes), ErrInvalidOutcome)
	}
	var sum float64
	for o, w := range dist {
		if w == 0 {
			continue
		}
		tr := &a.outcomes[o].transition
		if tr.Len() == 0 {
			return 0, fmt.Errorf("outcome %d: %w", o, ErrEmptyTransition)
		}
		sum += w * tr.ExpectedReward()
	}
	return sum, nil
}

// IsOutcomeCorrect reports whether dist is shaped for this action: one
// non-negative weight per outcome. This is a structural check only.
func (a *WeightedAction) IsOutcomeCorrect(dist []float64) bool {
	if len(dist) != len(a.outcomes) || len(a.outcomes) == 0 {
		return false
	}
	for _, w := range dist {
		if w < 0 {
			return false
		}
	}
	return true
}

// #endregion weighted-action
