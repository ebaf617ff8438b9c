package process

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// #region csv-header
// CSVHeader lists the six columns of the persisted CSV format, in order.
var CSVHeader = []string{"idstatefrom", "idaction", "idoutcome", "idstateto", "probability", "reward"}

// #endregion csv-header

// #region write-csv
// WriteCSV writes the process as CSV, one row per (state, action, outcome,
// target) tuple in nested index order. Actions and outcomes with no outgoing
// transitions produce no rows, so a re-import cannot distinguish an absent
// action from a present action with zero outcomes. The export never mutates
// the process.
func (p *Process[C, S]) WriteCSV(w io.Writer, header bool) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(CSVHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	record := make([]string, 6)
	for si, s := range p.states {
		for ai := 0; ai < s.ActionCount(); ai++ {
			for oi := 0; oi < s.OutcomeCount(ai); oi++ {
				tr, err := s.OutcomeTransition(ai, oi)
				if err != nil {
					return fmt.Errorf("state %d action %d outcome %d: %w", si, ai, oi, err)
				}
				indices := tr.Indices()
				probabilities := tr.Probabilities()
				rewards := tr.Rewards()
				for j := range indices {
					record[0] = strconv.Itoa(si)
					record[1] = strconv.Itoa(ai)
					record[2] = strconv.Itoa(oi)
					record[3] = strconv.Itoa(indices[j])
					record[4] = strconv.FormatFloat(probabilities[j], 'g', -1, 64)
					record[5] = strconv.FormatFloat(rewards[j], 'g', -1, 64)
					if err := cw.Write(record); err != nil {
						return fmt.Errorf("write csv row: %w", err)
					}
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// #endregion write-csv
