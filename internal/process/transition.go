package process

import "fmt"

// #region tolerance
// normalizedTolerance is the floating tolerance used when checking that
// transition probabilities sum to one.
const normalizedTolerance = 1e-5

// #endregion tolerance

// #region transition-struct
// Transition is a sparse mapping from an implicit source to a set of
// (target state, probability, reward) triples. Targets are unique and kept
// in insertion order. Probabilities are non-negative and do not have to sum
// to one; Normalize rescales them when that is needed.
type Transition struct {
	indices       []int
	probabilities []float64
	rewards       []float64
}

// #endregion transition-struct

// #region add
// Add merges one (target, probability, reward) triple into the transition.
// A repeated target accumulates: probabilities sum and the reward becomes
// the probability-weighted average of the old and new values.
func (t *Transition) Add(target int, probability, reward float64) error {
	if target < 0 {
		return fmt.Errorf("target state %d: %w", target, ErrIndexOutOfRange)
	}
	if probability < 0 {
		return fmt.Errorf("target state %d: negative probability %g: %w", target, probability, ErrStructural)
	}
	for i, idx := range t.indices {
		if idx != target {
			continue
		}
		total := t.probabilities[i] + probability
		if total > 0 {
			t.rewards[i] = (t.rewards[i]*t.probabilities[i] + reward*probability) / total
		}
		t.probabilities[i] = total
		return nil
	}
	t.indices = append(t.indices, target)
	t.probabilities = append(t.probabilities, probability)
	t.rewards = append(t.rewards, reward)
	return nil
}

// #endregion add

// #region accessors
// Len returns the number of target entries.
func (t *Transition) Len() int { return len(t.indices) }

// Indices returns the target state indices in insertion order.
// The returned slice is owned by the transition and must not be modified.
func (t *Transition) Indices() []int { return t.indices }

// Probabilities returns the probabilities aligned with Indices.
// The returned slice is owned by the transition and must not be modified.
func (t *Transition) Probabilities() []float64 { return t.probabilities }

// Rewards returns the rewards aligned with Indices.
// The returned slice is owned by the transition and must not be modified.
func (t *Transition) Rewards() []float64 { return t.rewards }

// SumProbabilities returns the total probability mass.
func (t *Transition) SumProbabilities() float64 {
	var sum float64
	for _, p := range t.probabilities {
		sum += p
	}
	return sum
}

// MaxIndex returns the largest target state index, or -1 when empty.
func (t *Transition) MaxIndex() int {
	max := -1
	for _, idx := range t.indices {
		if idx > max {
			max = idx
		}
	}
	return max
}

// #endregion accessors

// #region expected-reward
// ExpectedReward returns the probability-weighted sum of rewards. For a
// normalized transition this is the expected one-step reward.
func (t *Transition) ExpectedReward() float64 {
	var sum float64
	for i, p := range t.probabilities {
		sum += p * t.rewards[i]
	}
	return sum
}

// #endregion expected-reward

// #region probability-vector
// ProbabilityVector returns a dense vector of length n with probabilities
// placed at their target indices and zero elsewhere. Fails when n is not
// large enough to hold the largest target index.
func (t *Transition) ProbabilityVector(n int) ([]float64, error) {
	if m := t.MaxIndex(); n <= m {
		return nil, fmt.Errorf("vector length %d does not cover target state %d: %w", n, m, ErrIndexOutOfRange)
	}
	vec := make([]float64, n)
	for i, idx := range t.indices {
		vec[idx] = t.probabilities[i]
	}
	return vec, nil
}

// #endregion probability-vector

// #region normalize
// IsNormalized reports whether the probabilities sum to one within tolerance.
func (t *Transition) IsNormalized() bool {
	diff := t.SumProbabilities() - 1.0
	if diff < 0 {
		diff = -diff
	}
	return diff <= normalizedTolerance
}

// Normalize rescales probabilities to sum to one. A zero probability sum
// leaves the transition unchanged.
func (t *Transition) Normalize() {
	sum := t.SumProbabilities()
	if sum == 0 {
		return
	}
	for i := range t.probabilities {
		t.probabilities[i] /= sum
	}
}

// #endregion normalize

// #region add-scaled
// addScaled merges src scaled by weight into t, accumulating probabilities
// and probability-weighting rewards. Used to build outcome mixtures.
func (t *Transition) addScaled(src *Transition, weight float64) {
	for i, idx := range src.indices {
		// targets are non-negative by construction, Add cannot fail here
		_ = t.Add(idx, weight*src.probabilities[i], src.rewards[i])
	}
}

// #endregion add-scaled
