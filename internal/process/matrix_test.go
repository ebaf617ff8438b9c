package process

import (
	"errors"
	"testing"
)

func TestTransitionMatTranspose(t *testing.T) {
	p := buildThreeStateMDP(t)
	policy := []int{0, 1, 0}
	nature := []int{0, 0, 0}

	m, err := p.TransitionMat(policy, nature)
	if err != nil {
		t.Fatalf("transition mat: %v", err)
	}
	mt, err := p.TransitionMatT(policy, nature)
	if err != nil {
		t.Fatalf("transition mat transpose: %v", err)
	}

	n := p.StateCount()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if !almostEqual(m.At(i, j), mt.At(j, i)) {
				t.Errorf("m[%d][%d]=%g != mt[%d][%d]=%g", i, j, m.At(i, j), j, i, mt.At(j, i))
			}
		}
	}
}

func TestTransitionMatTerminalRow(t *testing.T) {
	// state 0 loops between 0 and 1, state 1 is terminal
	p := NewMDP(2)
	addMDPTransition(t, p, 0, 0, 0, 1, 0.5, 0)
	addMDPTransition(t, p, 0, 0, 0, 0, 0.5, 0)

	m, err := p.TransitionMat([]int{0, 0}, []int{0, 0})
	if err != nil {
		t.Fatalf("transition mat: %v", err)
	}

	// Terminal states contribute an all-zero row: no forced self-loop.
	if m.At(1, 0) != 0 || m.At(1, 1) != 0 {
		t.Errorf("terminal row should be zero, got [%g %g]", m.At(1, 0), m.At(1, 1))
	}
	if !almostEqual(m.At(0, 0), 0.5) || !almostEqual(m.At(0, 1), 0.5) {
		t.Errorf("unexpected row 0: [%g %g]", m.At(0, 0), m.At(0, 1))
	}
}

func TestTransitionMatPolicyLengths(t *testing.T) {
	p := buildThreeStateMDP(t)
	if _, err := p.TransitionMat([]int{0}, []int{0, 0, 0}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("short policy: expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := p.RewardsState([]int{0, 0, 0}, []int{0}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("short nature: expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestOccupancyFreqZeroDiscount(t *testing.T) {
	p := buildThreeStateMDP(t)

	var init Transition
	init.Add(0, 0.2, 0)
	init.Add(1, 0.3, 0)
	init.Add(2, 0.5, 0)

	// discount 0 degenerates the system to the identity
	f, err := p.OccupancyFreq(&init, 0, []int{0, 0, 0}, []int{0, 0, 0})
	if err != nil {
		t.Fatalf("occupancy freq: %v", err)
	}
	want := []float64{0.2, 0.3, 0.5}
	for i := range want {
		if !almostEqual(f[i], want[i]) {
			t.Errorf("f[%d] = %g, want %g", i, f[i], want[i])
		}
	}
}

func TestOccupancyFreqSelfLoop(t *testing.T) {
	// One state looping onto itself: f = init / (1 - discount)
	p := NewMDP(1)
	addMDPTransition(t, p, 0, 0, 0, 0, 1.0, 0)

	var init Transition
	init.Add(0, 1.0, 0)

	f, err := p.OccupancyFreq(&init, 0.5, []int{0}, []int{0})
	if err != nil {
		t.Fatalf("occupancy freq: %v", err)
	}
	if !almostEqual(f[0], 2.0) {
		t.Errorf("expected occupancy 2.0, got %g", f[0])
	}
}

func TestOccupancyFreqChain(t *testing.T) {
	// 0 -> 1 -> terminal 2; discounted visitation decays along the chain.
	p := NewMDP(3)
	addMDPTransition(t, p, 0, 0, 0, 1, 1.0, 0)
	addMDPTransition(t, p, 1, 0, 0, 2, 1.0, 0)

	var init Transition
	init.Add(0, 1.0, 0)

	f, err := p.OccupancyFreq(&init, 0.9, []int{0, 0, 0}, []int{0, 0, 0})
	if err != nil {
		t.Fatalf("occupancy freq: %v", err)
	}
	want := []float64{1.0, 0.9, 0.81}
	for i := range want {
		if !almostEqual(f[i], want[i]) {
			t.Errorf("f[%d] = %g, want %g", i, f[i], want[i])
		}
	}
}

func TestOccupancyFreqSingular(t *testing.T) {
	// discount 1 with a probability-1 self-loop makes I - P^T singular
	p := NewMDP(1)
	addMDPTransition(t, p, 0, 0, 0, 0, 1.0, 0)

	var init Transition
	init.Add(0, 1.0, 0)

	_, err := p.OccupancyFreq(&init, 1.0, []int{0}, []int{0})
	if !errors.Is(err, ErrSingularSystem) {
		t.Fatalf("expected ErrSingularSystem, got %v", err)
	}
}

func TestOccupancyFreqEmptyProcess(t *testing.T) {
	p := NewMDP(0)
	var init Transition
	f, err := p.OccupancyFreq(&init, 0.9, nil, nil)
	if err != nil {
		t.Fatalf("empty occupancy: %v", err)
	}
	if len(f) != 0 {
		t.Errorf("expected empty frequency vector, got %v", f)
	}
}

func TestOccupancyFreqInitTooLarge(t *testing.T) {
	p := NewMDP(1)
	addMDPTransition(t, p, 0, 0, 0, 0, 1.0, 0)

	var init Transition
	init.Add(3, 1.0, 0) // beyond the state space

	if _, err := p.OccupancyFreq(&init, 0.5, []int{0}, []int{0}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("oversized init: expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestStructuralErrorSurfacesWithState(t *testing.T) {
	// Robust action with no outcomes is a structural error at evaluation.
	p := NewRMDP(1)
	s, _ := p.CreateState(0)
	s.CreateAction(0) // action exists, zero outcomes

	_, err := p.RewardsState([]int{0}, [][]float64{{}})
	if !errors.Is(err, ErrNoOutcomes) {
		t.Fatalf("expected ErrNoOutcomes, got %v", err)
	}
	if !errors.Is(err, ErrStructural) {
		t.Error("ErrNoOutcomes should match ErrStructural")
	}
}
