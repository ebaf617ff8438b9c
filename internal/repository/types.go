package repository

import "time"

// #region model-record
// ModelRecord describes one stored process definition.
type ModelRecord struct {
	ModelID   string
	Name      string
	CreatedAt time.Time
}

// #endregion model-record

// #region evaluation-record
// EvaluationRecord is the durable provenance of one policy evaluation run:
// which model, which policies, what came out.
type EvaluationRecord struct {
	RunID      string
	ModelID    string
	Discount   float64
	PolicyJSON string
	ResultJSON string
	CreatedAt  time.Time
}

// #endregion evaluation-record
