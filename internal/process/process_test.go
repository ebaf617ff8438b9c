package process

import (
	"errors"
	"testing"
)

// addMDPTransition wires state->action->outcome->target directly for tests.
func addMDPTransition(t *testing.T, p *MDP, from, action, outcome, to int, prob, reward float64) {
	t.Helper()
	if _, err := p.CreateState(to); err != nil {
		t.Fatalf("create target state %d: %v", to, err)
	}
	s, err := p.CreateState(from)
	if err != nil {
		t.Fatalf("create state %d: %v", from, err)
	}
	tr, err := s.CreateTransition(action, outcome)
	if err != nil {
		t.Fatalf("create transition %d/%d/%d: %v", from, action, outcome, err)
	}
	if err := tr.Add(to, prob, reward); err != nil {
		t.Fatalf("add transition: %v", err)
	}
}

// buildThreeStateMDP is the shared two-action chain scenario:
// action 0 keeps paying in state 1, action 1 moves toward state 2.
func buildThreeStateMDP(t *testing.T) *MDP {
	t.Helper()
	p := NewMDP(3)
	addMDPTransition(t, p, 0, 0, 0, 1, 1, 0)
	addMDPTransition(t, p, 1, 0, 0, 1, 1, 1)
	addMDPTransition(t, p, 2, 0, 0, 1, 1, 1)
	addMDPTransition(t, p, 0, 1, 0, 1, 1, 0)
	addMDPTransition(t, p, 1, 1, 0, 2, 1, 0)
	addMDPTransition(t, p, 2, 1, 0, 2, 1, 1.1)
	return p
}

func TestCreateStateGrowth(t *testing.T) {
	p := NewMDP(0)
	if p.StateCount() != 0 {
		t.Fatalf("empty process should have 0 states, got %d", p.StateCount())
	}

	if _, err := p.CreateState(4); err != nil {
		t.Fatalf("create state 4: %v", err)
	}
	if p.StateCount() != 5 {
		t.Fatalf("growth to index 4 should yield 5 states, got %d", p.StateCount())
	}

	// Every index resolves, and intermediate states are terminal.
	for i := 0; i < p.StateCount(); i++ {
		s, err := p.State(i)
		if err != nil {
			t.Fatalf("state %d: %v", i, err)
		}
		if !s.IsTerminal() {
			t.Errorf("grown state %d should be terminal", i)
		}
	}

	// Creating an existing state does not grow or reset.
	if _, err := p.CreateState(2); err != nil {
		t.Fatalf("re-create state 2: %v", err)
	}
	if p.StateCount() != 5 {
		t.Errorf("re-creating state 2 changed the count to %d", p.StateCount())
	}

	if _, err := p.CreateState(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative id: expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := p.State(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("missing id: expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestAddState(t *testing.T) {
	p := NewMDP(1)
	p.AddState()
	if p.StateCount() != 2 {
		t.Fatalf("expected 2 states, got %d", p.StateCount())
	}
	terminal, err := p.IsTerminal(1)
	if err != nil {
		t.Fatalf("is terminal: %v", err)
	}
	if !terminal {
		t.Error("appended state should be terminal")
	}
}

func TestRewardsStateScenario(t *testing.T) {
	p := buildThreeStateMDP(t)
	zeros := []int{0, 0, 0}

	r0, err := p.RewardsState([]int{0, 0, 0}, zeros)
	if err != nil {
		t.Fatalf("rewards action 0: %v", err)
	}
	want0 := []float64{0, 1, 1}
	for i := range want0 {
		if !almostEqual(r0[i], want0[i]) {
			t.Errorf("action-0 rewards[%d] = %g, want %g", i, r0[i], want0[i])
		}
	}

	r1, err := p.RewardsState([]int{1, 1, 1}, zeros)
	if err != nil {
		t.Fatalf("rewards action 1: %v", err)
	}
	want1 := []float64{0, 0, 1.1}
	for i := range want1 {
		if !almostEqual(r1[i], want1[i]) {
			t.Errorf("action-1 rewards[%d] = %g, want %g", i, r1[i], want1[i])
		}
	}
}

func TestTerminalOnlyProcess(t *testing.T) {
	p := NewMDP(1)

	r, err := p.RewardsState([]int{7}, []int{9})
	if err != nil {
		t.Fatalf("rewards on terminal-only process: %v", err)
	}
	if len(r) != 1 || r[0] != 0 {
		t.Errorf("terminal state should contribute 0, got %v", r)
	}

	// Arbitrary indices never flag a terminal state.
	if idx := p.IsPolicyCorrect([]int{42}, []int{-3}); idx != -1 {
		t.Errorf("terminal-only process should be all correct, got %d", idx)
	}
}

func TestIsPolicyCorrect(t *testing.T) {
	p := buildThreeStateMDP(t)

	if idx := p.IsPolicyCorrect([]int{0, 1, 0}, []int{0, 0, 0}); idx != -1 {
		t.Errorf("valid policy pair flagged at state %d", idx)
	}

	// Action out of range at state 1
	if idx := p.IsPolicyCorrect([]int{0, 2, 0}, []int{0, 0, 0}); idx != 1 {
		t.Errorf("expected first violation at state 1, got %d", idx)
	}

	// Outcome out of range at state 0
	if idx := p.IsPolicyCorrect([]int{0, 0, 0}, []int{1, 0, 0}); idx != 0 {
		t.Errorf("expected first violation at state 0, got %d", idx)
	}

	// Short policy counts as a violation at the first uncovered state
	if idx := p.IsPolicyCorrect([]int{0}, []int{0}); idx != 1 {
		t.Errorf("short policy should flag state 1, got %d", idx)
	}
}

func TestPerStatePrimitives(t *testing.T) {
	p := buildThreeStateMDP(t)

	r, err := p.MeanReward(2, 1, 0)
	if err != nil {
		t.Fatalf("mean reward: %v", err)
	}
	if !almostEqual(r, 1.1) {
		t.Errorf("expected 1.1, got %g", r)
	}

	tr, err := p.MeanTransition(1, 1, 0)
	if err != nil {
		t.Fatalf("mean transition: %v", err)
	}
	if tr.Len() != 1 || tr.Indices()[0] != 2 {
		t.Errorf("unexpected transition: %v", tr.Indices())
	}

	if _, err := p.MeanReward(9, 0, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("missing state: expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := p.MeanReward(0, 5, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("missing action: expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestProcessNormalize(t *testing.T) {
	p := NewMDP(2)
	s, _ := p.CreateState(0)
	tr, _ := s.CreateTransition(0, 0)
	tr.Add(0, 1.0, 0)
	tr.Add(1, 3.0, 0)

	if p.IsNormalized() {
		t.Error("process with sum-4 transition should not be normalized")
	}
	p.Normalize()
	if !p.IsNormalized() {
		t.Error("process should be normalized after Normalize")
	}
}

func TestRobustProcess(t *testing.T) {
	p := NewRMDP(2)
	s, err := p.CreateState(0)
	if err != nil {
		t.Fatalf("create state: %v", err)
	}
	tr, err := s.CreateTransition(0, 0)
	if err != nil {
		t.Fatalf("create transition: %v", err)
	}
	tr.Add(1, 1.0, 2.0)
	tr2, err := s.CreateTransition(0, 1)
	if err != nil {
		t.Fatalf("create transition: %v", err)
	}
	tr2.Add(0, 1.0, 4.0)

	nature := [][]float64{{0.5, 0.5}, nil}
	r, err := p.RewardsState([]int{0, 0}, nature)
	if err != nil {
		t.Fatalf("robust rewards: %v", err)
	}
	if !almostEqual(r[0], 3.0) {
		t.Errorf("expected mixture reward 3.0, got %g", r[0])
	}
	if r[1] != 0 {
		t.Errorf("terminal state reward should be 0, got %g", r[1])
	}

	if idx := p.IsPolicyCorrect([]int{0, 0}, nature); idx != -1 {
		t.Errorf("valid robust policy flagged at state %d", idx)
	}
	if idx := p.IsPolicyCorrect([]int{0, 0}, [][]float64{{1.0}, nil}); idx != 0 {
		t.Errorf("short distribution should flag state 0, got %d", idx)
	}
}

func TestProcessString(t *testing.T) {
	p := buildThreeStateMDP(t)
	got := p.String()
	want := "0 : 2\n    0 : 1\n    1 : 1\n1 : 2\n    0 : 1\n    1 : 1\n2 : 2\n    0 : 1\n    1 : 1\n"
	if got != want {
		t.Errorf("unexpected listing:\n%s", got)
	}
}
