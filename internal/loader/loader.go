// Package loader builds decision processes incrementally: programmatic
// transition construction and CSV import. It is the construction counterpart
// of the read-only exports in the process package.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/danielpatrickdp/robust-mdp/internal/process"
)

// #region add-transition
// AddTransition ensures the source state, action, outcome, and target state
// all exist (creating them and any intermediate indices as needed) and merges
// one (target, probability, reward) triple into the outcome's transition.
func AddTransition[C any, S process.State[C]](p *process.Process[C, S], from, action, outcome, to int, probability, reward float64) error {
	if _, err := p.CreateState(to); err != nil {
		return fmt.Errorf("target state %d: %w", to, err)
	}
	s, err := p.CreateState(from)
	if err != nil {
		return fmt.Errorf("source state %d: %w", from, err)
	}
	tr, err := s.CreateTransition(action, outcome)
	if err != nil {
		return fmt.Errorf("state %d: %w", from, err)
	}
	if err := tr.Add(to, probability, reward); err != nil {
		return fmt.Errorf("state %d action %d outcome %d: %w", from, action, outcome, err)
	}
	return nil
}

// #endregion add-transition

// #region read-csv
// ReadCSV builds a plain process from the six-column persisted format
// (idstatefrom, idaction, idoutcome, idstateto, probability, reward).
// When header is true the first record is skipped. Absent (action, outcome)
// combinations stay absent; nothing is created with probability zero.
// Outcome base-distribution weights are not part of the format, so robust
// models cannot be fully reconstructed from CSV.
func ReadCSV(r io.Reader, header bool) (*process.MDP, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 6

	p := process.NewMDP(0)
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if header && line == 1 {
			continue
		}

		fields, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		if err := AddTransition(p, fields.from, fields.action, fields.outcome, fields.to, fields.probability, fields.reward); err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
	}
	return p, nil
}

// LoadCSVFile reads a plain process from a CSV file with a header row.
func LoadCSVFile(path string) (*process.MDP, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f, true)
}

// #endregion read-csv

// #region parse
type csvRecord struct {
	from, action, outcome, to int
	probability, reward       float64
}

func parseRecord(record []string) (csvRecord, error) {
	var rec csvRecord
	var err error
	if rec.from, err = strconv.Atoi(record[0]); err != nil {
		return rec, fmt.Errorf("idstatefrom %q: %w", record[0], err)
	}
	if rec.action, err = strconv.Atoi(record[1]); err != nil {
		return rec, fmt.Errorf("idaction %q: %w", record[1], err)
	}
	if rec.outcome, err = strconv.Atoi(record[2]); err != nil {
		return rec, fmt.Errorf("idoutcome %q: %w", record[2], err)
	}
	if rec.to, err = strconv.Atoi(record[3]); err != nil {
		return rec, fmt.Errorf("idstateto %q: %w", record[3], err)
	}
	if rec.probability, err = strconv.ParseFloat(record[4], 64); err != nil {
		return rec, fmt.Errorf("probability %q: %w", record[4], err)
	}
	if rec.reward, err = strconv.ParseFloat(record[5], 64); err != nil {
		return rec, fmt.Errorf("reward %q: %w", record[5], err)
	}
	return rec, nil
}

// #endregion parse
