package process

import "encoding/json"

// #region json-views
type processJSON struct {
	States []stateJSON `json:"states"`
}

type stateJSON struct {
	ID      int          `json:"id"`
	Actions []actionJSON `json:"actions"`
}

type actionJSON struct {
	ID       int           `json:"id"`
	Outcomes []outcomeJSON `json:"outcomes"`
}

type outcomeJSON struct {
	ID         int            `json:"id"`
	Weight     float64        `json:"weight,omitempty"`
	Transition transitionJSON `json:"transition"`
}

type transitionJSON struct {
	Targets       []int     `json:"targets"`
	Probabilities []float64 `json:"probabilities"`
	Rewards       []float64 `json:"rewards"`
}

// #endregion json-views

// #region marshal-json
// MarshalJSON renders the process as {"states": [...]} with array order equal
// to state index order. The export is a read-only view and stays valid JSON
// for an empty process. The format is structural, with no versioning field
// and no compatibility guarantee across representation changes.
func (p *Process[C, S]) MarshalJSON() ([]byte, error) {
	doc := processJSON{States: make([]stateJSON, len(p.states))}
	for si, s := range p.states {
		sj := stateJSON{ID: si, Actions: make([]actionJSON, s.ActionCount())}
		for ai := 0; ai < s.ActionCount(); ai++ {
			aj := actionJSON{ID: ai, Outcomes: make([]outcomeJSON, s.OutcomeCount(ai))}
			for oi := 0; oi < s.OutcomeCount(ai); oi++ {
				tr, err := s.OutcomeTransition(ai, oi)
				if err != nil {
					return nil, err
				}
				aj.Outcomes[oi] = outcomeJSON{
					ID:     oi,
					Weight: s.OutcomeWeight(ai, oi),
					Transition: transitionJSON{
						Targets:       append([]int{}, tr.Indices()...),
						Probabilities: append([]float64{}, tr.Probabilities()...),
						Rewards:       append([]float64{}, tr.Rewards()...),
					},
				}
			}
			sj.Actions[ai] = aj
		}
		doc.States[si] = sj
	}
	return json.Marshal(doc)
}

// #endregion marshal-json
