package process

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// #region policy-check
// checkPolicyLengths verifies that both policies carry one entry per state.
func (p *Process[C, S]) checkPolicyLengths(policy ActionPolicy, nature OutcomePolicy[C]) error {
	n := len(p.states)
	if len(policy) != n {
		return fmt.Errorf("action policy length %d for %d states: %w", len(policy), n, ErrIndexOutOfRange)
	}
	if len(nature) != n {
		return fmt.Errorf("nature policy length %d for %d states: %w", len(nature), n, ErrIndexOutOfRange)
	}
	return nil
}

// #endregion policy-check

// #region rewards-state
// RewardsState returns the dense reward vector under the given policy pair:
// zero for terminal states, the state's mean reward otherwise. States are
// independent, so the loop runs in parallel with one slot per state.
func (p *Process[C, S]) RewardsState(policy ActionPolicy, nature OutcomePolicy[C]) ([]float64, error) {
	if err := p.checkPolicyLengths(policy, nature); err != nil {
		return nil, err
	}
	n := len(p.states)
	rewards := make([]float64, n)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for s := 0; s < n; s++ {
		g.Go(func() error {
			if p.states[s].IsTerminal() {
				return nil
			}
			r, err := p.states[s].MeanReward(policy[s], nature[s])
			if err != nil {
				return fmt.Errorf("state %d: %w", s, err)
			}
			rewards[s] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rewards, nil
}

// #endregion rewards-state

// #region transition-mat
// TransitionMat builds the dense n-by-n transition matrix under the given
// policy pair: row s holds the mean transition distribution of state s.
// Terminal states contribute an all-zero row; callers needing absorbing
// chains must add the self-loop themselves. Returns nil for an empty
// process.
func (p *Process[C, S]) TransitionMat(policy ActionPolicy, nature OutcomePolicy[C]) (*mat.Dense, error) {
	return p.buildTransitionMat(policy, nature, false)
}

// TransitionMatT builds the transpose of TransitionMat: column s holds the
// mean transition distribution of state s.
func (p *Process[C, S]) TransitionMatT(policy ActionPolicy, nature OutcomePolicy[C]) (*mat.Dense, error) {
	return p.buildTransitionMat(policy, nature, true)
}

func (p *Process[C, S]) buildTransitionMat(policy ActionPolicy, nature OutcomePolicy[C], transpose bool) (*mat.Dense, error) {
	if err := p.checkPolicyLengths(policy, nature); err != nil {
		return nil, err
	}
	n := len(p.states)
	if n == 0 {
		return nil, nil
	}
	result := mat.NewDense(n, n, nil)

	// Each state writes only its own row (or column), so the parallel
	// loop touches disjoint elements.
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for s := 0; s < n; s++ {
		g.Go(func() error {
			if p.states[s].IsTerminal() {
				return nil
			}
			t, err := p.states[s].MeanTransition(policy[s], nature[s])
			if err != nil {
				return fmt.Errorf("state %d: %w", s, err)
			}
			indices := t.Indices()
			probabilities := t.Probabilities()
			for j := range indices {
				if indices[j] >= n {
					return fmt.Errorf("state %d: target state %d of %d: %w", s, indices[j], n, ErrIndexOutOfRange)
				}
				if transpose {
					result.Set(indices[j], s, probabilities[j])
				} else {
					result.Set(s, indices[j], probabilities[j])
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// #endregion transition-mat

// #region occupancy-freq
// OccupancyFreq computes the discounted state-occupancy frequency vector f
// solving (I - discount * P^T) f = init, where P is the mean transition
// matrix under the given policy pair and init is the initial distribution.
// The system is solved directly by dense LU factorization with partial
// pivoting; a singular system surfaces as ErrSingularSystem.
func (p *Process[C, S]) OccupancyFreq(init *Transition, discount float64, policy ActionPolicy, nature OutcomePolicy[C]) ([]float64, error) {
	n := len(p.states)
	if n == 0 {
		return []float64{}, nil
	}

	initial, err := init.ProbabilityVector(n)
	if err != nil {
		return nil, fmt.Errorf("initial distribution: %w", err)
	}

	tmat, err := p.TransitionMatT(policy, nature)
	if err != nil {
		return nil, err
	}

	// system matrix: I - discount * P^T
	var system mat.Dense
	system.Scale(-discount, tmat)
	for i := 0; i < n; i++ {
		system.Set(i, i, system.At(i, i)+1)
	}

	var lu mat.LU
	lu.Factorize(&system)

	freq := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(freq, false, mat.NewVecDense(n, initial)); err != nil {
		return nil, fmt.Errorf("solve occupancy system: %w", ErrSingularSystem)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = freq.AtVec(i)
	}
	return out, nil
}

// #endregion occupancy-freq
