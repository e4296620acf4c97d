package storage

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// SubmissionInfo is the local record of one report submission attempt.
// Descriptions and logs are not kept.
type SubmissionInfo struct {
	SubmissionUUID string    `json:"submission_uuid"`
	Endpoint       string    `json:"endpoint"`
	Title          string    `json:"title"`
	HasLogs        bool      `json:"has_logs"`
	Outcome        string    `json:"outcome"` // SUCCESS, REJECTED, TRANSPORT_FAILURE
	StatusCode     int       `json:"status_code"`
	Error          string    `json:"error,omitempty"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// SubmissionStore keeps the client side submission history
type SubmissionStore struct {
	db             *DB
	maxSubmissions int
	logger         *zap.Logger
}

func NewSubmissionStore(db *DB, maxSubmissions int, logger *zap.Logger) *SubmissionStore {
	if maxSubmissions <= 0 {
		maxSubmissions = 200
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionStore{
		db:             db,
		maxSubmissions: maxSubmissions,
		logger:         logger,
	}
}

// RecordSubmission stores a submission and trims the history
func (s *SubmissionStore) RecordSubmission(info SubmissionInfo) error {
	query := `
		INSERT INTO submissions (submission_uuid, endpoint, title, has_logs, outcome, status_code, error, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		info.SubmissionUUID, info.Endpoint, info.Title, info.HasLogs,
		info.Outcome, info.StatusCode, info.Error, info.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}

	if err := s.cleanupOldSubmissions(); err != nil {
		s.logger.Warn("failed to cleanup old submissions", zap.Error(err))
	}

	return nil
}

// GetRecentSubmissions returns the N most recent submissions, newest first
func (s *SubmissionStore) GetRecentSubmissions(limit int) ([]*SubmissionInfo, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT submission_uuid, endpoint, title, has_logs, outcome, status_code, error, submitted_at
		FROM submissions
		ORDER BY submitted_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*SubmissionInfo
	for rows.Next() {
		var info SubmissionInfo
		err := rows.Scan(
			&info.SubmissionUUID, &info.Endpoint, &info.Title, &info.HasLogs,
			&info.Outcome, &info.StatusCode, &info.Error, &info.SubmittedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, &info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return submissions, nil
}

func (s *SubmissionStore) cleanupOldSubmissions() error {
	query := `
		DELETE FROM submissions
		WHERE id NOT IN (
			SELECT id FROM submissions
			ORDER BY submitted_at DESC
			LIMIT ?
		)
	`

	_, err := s.db.Exec(query, s.maxSubmissions)
	return err
}
