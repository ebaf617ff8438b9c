// Package repository persists process definitions and evaluation provenance
// in SQLite. Models are stored as their CSV tuple rows, so the same lossy
// edge applies: actions and outcomes without transitions are not stored.
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/robust-mdp/internal/loader"
	"github.com/danielpatrickdp/robust-mdp/internal/process"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS models (
	model_id    TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS model_transitions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	model_id    TEXT NOT NULL,
	idstatefrom INTEGER NOT NULL,
	idaction    INTEGER NOT NULL,
	idoutcome   INTEGER NOT NULL,
	idstateto   INTEGER NOT NULL,
	probability REAL NOT NULL,
	reward      REAL NOT NULL,
	FOREIGN KEY (model_id) REFERENCES models(model_id)
);
CREATE INDEX IF NOT EXISTS idx_transitions_model ON model_transitions(model_id);

CREATE TABLE IF NOT EXISTS evaluation_log (
	run_id      TEXT PRIMARY KEY,
	model_id    TEXT NOT NULL,
	discount    REAL NOT NULL,
	policy_json TEXT NOT NULL,
	result_json TEXT,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (model_id) REFERENCES models(model_id)
);
`

// #endregion schema

// #region store-struct
// Store manages process models and evaluation provenance in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// Open opens a SQLite database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region save-model
// SaveModel stores a plain process under a fresh model id and returns it.
// Rows are written in the same nested index order as the CSV export.
func (s *Store) SaveModel(name string, p *process.MDP) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO models (model_id, name, created_at) VALUES (?, ?, ?)`,
		id, name, now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("insert model: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO model_transitions (model_id, idstatefrom, idaction, idoutcome, idstateto, probability, reward)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for si, st := range p.States() {
		for ai := 0; ai < st.ActionCount(); ai++ {
			for oi := 0; oi < st.OutcomeCount(ai); oi++ {
				tr, err := st.OutcomeTransition(ai, oi)
				if err != nil {
					return "", fmt.Errorf("state %d action %d outcome %d: %w", si, ai, oi, err)
				}
				indices := tr.Indices()
				probabilities := tr.Probabilities()
				rewards := tr.Rewards()
				for j := range indices {
					if _, err := stmt.Exec(id, si, ai, oi, indices[j], probabilities[j], rewards[j]); err != nil {
						return "", fmt.Errorf("insert transition: %w", err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// #endregion save-model

// #region load-model
// LoadModel rebuilds a plain process from its stored transition rows.
func (s *Store) LoadModel(modelID string) (*process.MDP, error) {
	var exists int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM models WHERE model_id = ?`, modelID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check model: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("model %s not found", modelID)
	}

	rows, err := s.db.Query(
		`SELECT idstatefrom, idaction, idoutcome, idstateto, probability, reward
		 FROM model_transitions WHERE model_id = ?
		 ORDER BY idstatefrom, idaction, idoutcome, id`,
		modelID,
	)
	if err != nil {
		return nil, fmt.Errorf("load transitions: %w", err)
	}
	defer rows.Close()

	p := process.NewMDP(0)
	for rows.Next() {
		var from, action, outcome, to int
		var probability, reward float64
		if err := rows.Scan(&from, &action, &outcome, &to, &probability, &reward); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		if err := loader.AddTransition(p, from, action, outcome, to, probability, reward); err != nil {
			return nil, fmt.Errorf("model %s: %w", modelID, err)
		}
	}
	return p, rows.Err()
}

// #endregion load-model

// #region list-models
// ListModels returns the most recently created models.
func (s *Store) ListModels(limit int) ([]ModelRecord, error) {
	rows, err := s.db.Query(
		`SELECT model_id, name, created_at FROM models ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var records []ModelRecord
	for rows.Next() {
		var rec ModelRecord
		var createdStr string
		if err := rows.Scan(&rec.ModelID, &rec.Name, &createdStr); err != nil {
			return nil, fmt.Errorf("scan model: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion list-models

// #region evaluation-log
// LogEvaluation writes one evaluation provenance row. A zero CreatedAt is
// filled with the current time; a missing RunID gets a fresh uuid. Returns
// the run id.
func (s *Store) LogEvaluation(rec EvaluationRecord) (string, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	var resultPtr interface{}
	if rec.ResultJSON != "" {
		resultPtr = rec.ResultJSON
	}

	_, err := s.db.Exec(
		`INSERT INTO evaluation_log (run_id, model_id, discount, policy_json, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.ModelID, rec.Discount, rec.PolicyJSON, resultPtr,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("log evaluation: %w", err)
	}
	return rec.RunID, nil
}

// ListEvaluations returns the evaluation runs of one model, newest first.
func (s *Store) ListEvaluations(modelID string) ([]EvaluationRecord, error) {
	rows, err := s.db.Query(
		`SELECT run_id, model_id, discount, policy_json, result_json, created_at
		 FROM evaluation_log WHERE model_id = ? ORDER BY created_at DESC`,
		modelID,
	)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var records []EvaluationRecord
	for rows.Next() {
		var rec EvaluationRecord
		var resultJSON sql.NullString
		var createdStr string
		if err := rows.Scan(&rec.RunID, &rec.ModelID, &rec.Discount, &rec.PolicyJSON, &resultJSON, &createdStr); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		if resultJSON.Valid {
			rec.ResultJSON = resultJSON.String
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// #endregion evaluation-log
