package process

import (
	"fmt"
	"strings"
)

// #region policies
// ActionPolicy assigns one action index per state, in state-index order.
type ActionPolicy = []int

// OutcomePolicy assigns one nature choice per state, in state-index order.
type OutcomePolicy[C any] = []C

// #endregion policies

// #region process-struct
// Process is an index-addressed, auto-growing sequence of states with a
// policy-evaluation engine over them. State indices are stable 0-based
// integers assigned at creation and never reused or compacted.
//
// Construction (CreateState, CreateTransition, Normalize) is single-threaded
// and must complete before evaluation begins; evaluation methods only read.
type Process[C any, S State[C]] struct {
	states   []S
	newState func() S
}

// MDP is a plain Markov decision process: one outcome index per state as the
// nature choice.
type MDP = Process[int, *RegularState]

// RMDP is an ambiguity-constrained robust process: one distribution over
// outcomes per state as the nature choice.
type RMDP = Process[[]float64, *RobustState]

// #endregion process-struct

// #region constructors
// New returns a process with n terminal states, using mk to create states.
func New[C any, S State[C]](mk func() S, n int) *Process[C, S] {
	p := &Process[C, S]{newState: mk}
	for i := 0; i < n; i++ {
		p.states = append(p.states, mk())
	}
	return p
}

// NewMDP returns a plain process with n terminal states.
func NewMDP(n int) *MDP {
	return New[int](func() *RegularState { return &RegularState{} }, n)
}

// NewRMDP returns a robust process with n terminal states.
func NewRMDP(n int) *RMDP {
	return New[[]float64](func() *RobustState { return &RobustState{} }, n)
}

// #endregion constructors

// #region state-access
// StateCount returns the number of states.
func (p *Process[C, S]) StateCount() int { return len(p.states) }

// State returns the state at the given index.
func (p *Process[C, S]) State(id int) (S, error) {
	var zero S
	if id < 0 || id >= len(p.states) {
		return zero, fmt.Errorf("state %d of %d: %w", id, len(p.states), ErrIndexOutOfRange)
	}
	return p.states[id], nil
}

// States returns the internal state sequence for read-only iteration.
func (p *Process[C, S]) States() []S { return p.states }

// CreateState grows the process so the state at id exists and returns it.
// Intermediate states are created terminal, so every index from 0 to
// StateCount()-1 always resolves to a valid state.
func (p *Process[C, S]) CreateState(id int) (S, error) {
	var zero S
	if id < 0 {
		return zero, fmt.Errorf("state %d: %w", id, ErrIndexOutOfRange)
	}
	for len(p.states) <= id {
		p.states = append(p.states, p.newState())
	}
	return p.states[id], nil
}

// AddState appends a new terminal state and returns it.
func (p *Process[C, S]) AddState() S {
	s := p.newState()
	p.states = append(p.states, s)
	return s
}

// IsTerminal reports whether the state at id has no actions.
func (p *Process[C, S]) IsTerminal(id int) (bool, error) {
	s, err := p.State(id)
	if err != nil {
		return false, err
	}
	return s.IsTerminal(), nil
}

// #endregion state-access

// #region per-state-primitives
// MeanReward returns the mean one-step reward of (state, action, choice).
// Terminal states contribute zero regardless of the supplied choice.
func (p *Process[C, S]) MeanReward(state, action int, choice C) (float64, error) {
	s, err := p.State(state)
	if err != nil {
		return 0, err
	}
	if s.IsTerminal() {
		return 0, nil
	}
	r, err := s.MeanReward(action, choice)
	if err != nil {
		return 0, fmt.Errorf("state %d: %w", state, err)
	}
	return r, nil
}

// MeanTransition returns the mean transition of (state, action, choice).
// Terminal states contribute an empty transition.
func (p *Process[C, S]) MeanTransition(state, action int, choice C) (Transition, error) {
	s, err := p.State(state)
	if err != nil {
		return Transition{}, err
	}
	if s.IsTerminal() {
		return Transition{}, nil
	}
	t, err := s.MeanTransition(action, choice)
	if err != nil {
		return Transition{}, fmt.Errorf("state %d: %w", state, err)
	}
	return t, nil
}

// #endregion per-state-primitives

// #region normalize
// IsNormalized reports whether every transition in the process sums to one.
// A process with terminal states or empty actions may still be normalized.
func (p *Process[C, S]) IsNormalized() bool {
	for _, s := range p.states {
		if !s.IsNormalized() {
			return false
		}
	}
	return true
}

// Normalize rescales all transitions to sum to one, state by state.
func (p *Process[C, S]) Normalize() {
	for _, s := range p.states {
		s.Normalize()
	}
}

// #endregion normalize

// #region policy-correct
// IsPolicyCorrect scans states in index order and returns the index of the
// first state whose (action, choice) pair is structurally invalid, or -1
// when the whole policy pair is correct. Terminal states never trigger a
// violation regardless of the supplied entries; a missing policy entry for a
// non-terminal state counts as a violation at that state.
func (p *Process[C, S]) IsPolicyCorrect(policy ActionPolicy, nature OutcomePolicy[C]) int {
	for si, s := range p.states {
		if s.IsTerminal() {
			continue
		}
		if si >= len(policy) || si >= len(nature) {
			return si
		}
		if !s.IsActionOutcomeCorrect(policy[si], nature[si]) {
			return si
		}
	}
	return -1
}

// #endregion policy-correct

// #region string
// String returns a brief listing of the process: one line per state with its
// action count, one indented line per action with its outcome count. Suited
// to small processes.
func (p *Process[C, S]) String() string {
	var b strings.Builder
	for si, s := range p.states {
		fmt.Fprintf(&b, "%d : %d\n", si, s.ActionCount())
		for ai := 0; ai < s.ActionCount(); ai++ {
			fmt.Fprintf(&b, "    %d : %d\n", ai, s.OutcomeCount(ai))
		}
	}
	return b.String()
}

// #endregion string
