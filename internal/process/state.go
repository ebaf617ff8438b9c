package process

import "fmt"

// #region state-interface
// State is the capability surface the process container needs from a state
// variant. C is the nature-choice type: an outcome index for plain states,
// a distribution over outcomes for robust states.
//
// Per-choice methods must be safe to call concurrently for distinct states
// sharing read-only access to the container. CreateTransition and Normalize
// belong to the single-threaded build phase.
type State[C any] interface {
	// ActionCount returns the number of actions; zero means terminal.
	ActionCount() int
	// IsTerminal reports whether the state has no actions.
	IsTerminal() bool
	// OutcomeCount returns the number of outcomes of an action, or zero
	// when the action index is out of range.
	OutcomeCount(action int) int
	// OutcomeTransition returns the transition of an (action, outcome)
	// pair for serialization and persistence.
	OutcomeTransition(action, outcome int) (*Transition, error)
	// OutcomeWeight returns the base-distribution weight of an outcome;
	// always zero for plain states.
	OutcomeWeight(action, outcome int) float64
	// MeanReward returns the mean one-step reward of an action under the
	// given nature choice.
	MeanReward(action int, choice C) (float64, error)
	// MeanTransition returns the mean transition of an action under the
	// given nature choice.
	MeanTransition(action int, choice C) (Transition, error)
	// IsActionOutcomeCorrect reports whether (action, choice) is
	// structurally valid for this state. Not a solver-optimality check.
	IsActionOutcomeCorrect(action int, choice C) bool
	// CreateTransition grows the state so the (action, outcome) pair
	// exists and returns its transition for incremental construction.
	CreateTransition(action, outcome int) (*Transition, error)
	// IsNormalized reports whether every outcome transition sums to one.
	IsNormalized() bool
	// Normalize rescales every outcome transition to sum to one.
	Normalize()
}

// #endregion state-interface

// #region regular-state
// RegularState is the plain-MDP state variant: ordered actions whose
// uncertainty is resolved by a single outcome index.
type RegularState struct {
	actions []PlainAction
}

// ActionCount returns the number of actions.
func (s *RegularState) ActionCount() int { return len(s.actions) }

// IsTerminal reports whether the state has no actions.
func (s *RegularState) IsTerminal() bool { return len(s.actions) == 0 }

// Action returns the action at index i.
func (s *RegularState) Action(i int) (*PlainAction, error) {
	if i < 0 || i >= len(s.actions) {
		return nil, fmt.Errorf("action %d of %d: %w", i, len(s.actions), ErrIndexOutOfRange)
	}
	return &s.actions[i], nil
}

// CreateAction grows the state so that action i exists and returns it.
// Intermediate actions are created with no outcomes.
func (s *RegularState) CreateAction(i int) (*PlainAction, error) {
	if i < 0 {
		return nil, fmt.Errorf("action %d: %w", i, ErrIndexOutOfRange)
	}
	for len(s.actions) <= i {
		s.actions = append(s.actions, PlainAction{})
	}
	return &s.actions[i], nil
}

// OutcomeCount returns the number of outcomes of an action.
func (s *RegularState) OutcomeCount(action int) int {
	if action < 0 || action >= len(s.actions) {
		return 0
	}
	return s.actions[action].OutcomeCount()
}

// OutcomeTransition returns the transition of an (action, outcome) pair.
func (s *RegularState) OutcomeTransition(action, outcome int) (*Transition, error) {
	a, err := s.Action(action)
	if err != nil {
		return nil, err
	}
	o, err := a.Outcome(outcome)
	if err != nil {
		return nil, err
	}
	return o.Transition(), nil
}

// OutcomeWeight is always zero for plain states.
func (s *RegularState) OutcomeWeight(action, outcome int) float64 { return 0 }

// MeanReward returns the expected reward of the chosen action and outcome.
func (s *RegularState) MeanReward(action, choice int) (float64, error) {
	a, err := s.Action(action)
	if err != nil {
		return 0, err
	}
	return a.MeanReward(choice)
}

// MeanTransition returns the transition of the chosen action and outcome.
func (s *RegularState) MeanTransition(action, choice int) (Transition, error) {
	a, err := s.Action(action)
	if err != nil {
		return Transition{}, err
	}
	return a.MeanTransition(choice)
}

// IsActionOutcomeCorrect reports whether both indices are within range.
func (s *RegularState) IsActionOutcomeCorrect(action, choice int) bool {
	if action < 0 || action >= len(s.actions) {
		return false
	}
	return s.actions[action].IsOutcomeCorrect(choice)
}

// CreateTransition grows the state so the (action, outcome) pair exists and
// returns its transition.
func (s *RegularState) CreateTransition(action, outcome int) (*Transition, error) {
	a, err := s.CreateAction(action)
	if err != nil {
		return nil, err
	}
	o, err := a.CreateOutcome(outcome)
	if err != nil {
		return nil, err
	}
	return o.Transition(), nil
}

// IsNormalized reports whether every outcome transition sums to one.
func (s *RegularState) IsNormalized() bool {
	for i := range s.actions {
		for j := range s.actions[i].outcomes {
			if !s.actions[i].outcomes[j].transition.IsNormalized() {
				return false
			}
		}
	}
	return true
}

// Normalize rescales every outcome transition to sum to one.
func (s *RegularState) Normalize() {
	for i := range s.actions {
		for j := range s.actions[i].outcomes {
			s.actions[i].outcomes[j].transition.Normalize()
		}
	}
}

// #endregion regular-state

// #region robust-state
// RobustState is the ambiguity-constrained state variant: ordered weighted
// actions whose uncertainty is resolved by a nature distribution over
// outcomes.
type RobustState struct {
	actions []WeightedAction
}

// ActionCount returns the number of actions.
func (s *RobustState) ActionCount() int { return len(s.actions) }

// IsTerminal reports whether the state has no actions.
func (s *RobustState) IsTerminal() bool { return len(s.actions) == 0 }

// Action returns the action at index i.
func (s *RobustState) Action(i int) (*WeightedAction, error) {
	if i < 0 || i >= len(s.actions) {
		return nil, fmt.Errorf("action %d of %d: %w", i, len(s.actions), ErrIndexOutOfRange)
	}
	return &s.actions[i], nil
}

// CreateAction grows the state so that action i exists and returns it.
func (s *RobustState) CreateAction(i int) (*WeightedAction, error) {
	if i < 0 {
		return nil, fmt.Errorf("action %d: %w", i, ErrIndexOutOfRange)
	}
	for len(s.actions) <= i {
		s.actions = append(s.actions, WeightedAction{})
	}
	return &s.actions[i], nil
}

// OutcomeCount returns the number of outcomes of an action.
func (s *RobustState) OutcomeCount(action int) int {
	if action < 0 || action >= len(s.actions) {
		return 0
	}
	return s.actions[action].OutcomeCount()
}

// OutcomeTransition returns the transition of an (action, outcome) pair.
func (s *RobustState) OutcomeTransition(action, outcome int) (*Transition, error) {
	a, err := s.Action(action)
	if err != nil {
		return nil, err
	}
	o, err := a.Outcome(outcome)
	if err != nil {
		return nil, err
	}
	return o.Transition(), nil
}

// OutcomeWeight returns the base-distribution weight of an outcome.
func (s *RobustState) OutcomeWeight(action, outcome int) float64 {
	a, err := s.Action(action)
	if err != nil {
		return 0
	}
	o, err := a.Outcome(outcome)
	if err != nil {
		return 0
	}
	return o.Weight()
}

// MeanReward returns the mixture reward of the chosen action under the
// nature distribution.
func (s *RobustState) MeanReward(action int, choice []float64) (float64, error) {
	a, err := s.Action(action)
	if err != nil {
		return 0, err
	}
	return a.MeanReward(choice)
}

// MeanTransition returns the mixture transition of the chosen action under
// the nature distribution.
func (s *RobustState) MeanTransition(action int, choice []float64) (Transition, error) {
	a, err := s.Action(action)
	if err != nil {
		return Transition{}, err
	}
	return a.MeanTransition(choice)
}

// IsActionOutcomeCorrect reports whether the action index is within range
// and the distribution is shaped for it.
func (s *RobustState) IsActionOutcomeCorrect(action int, choice []float64) bool {
	if action < 0 || action >= len(s.actions) {
		return false
	}
	return s.actions[action].IsOutcomeCorrect(choice)
}

// CreateTransition grows the state so the (action, outcome) pair exists and
// returns its transition.
func (s *RobustState) CreateTransition(action, outcome int) (*Transition, error) {
	a, err := s.CreateAction(action)
	if err != nil {
		return nil, err
	}
	o, err := a.CreateOutcome(outcome)
	if err != nil {
		return nil, err
	}
	return o.Transition(), nil
}

// IsNormalized reports whether every outcome transition sums to one.
func (s *RobustState) IsNormalized() bool {
	for i := range s.actions {
		for j := range s.actions[i].outcomes {
			if !s.actions[i].outcomes[j].transition.IsNormalized() {
				return false
			}
		}
	}
	return true
}

// Normalize rescales every outcome transition to sum to one.
func (s *RobustState) Normalize() {
	for i := range s.actions {
		for j := range s.actions[i].outcomes {
			s.actions[i].outcomes[j].transition.Normalize()
		}
	}
}

// #endregion robust-state
