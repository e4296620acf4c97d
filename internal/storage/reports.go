package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var ErrReportNotFound = errors.New("report not found")

// ReceivedReport is a bug report accepted by the sink
type ReceivedReport struct {
	ReportUUID  string    `json:"report_uuid"`
	BuildFlavor string    `json:"build_flavor"`
	VersionName string    `json:"version_name"`
	Title       string    `json:"report_title"`
	Description string    `json:"report_description"`
	Logs        *string   `json:"report_logs,omitempty"`
	RemoteAddr  string    `json:"remote_addr,omitempty"`
	ReceivedAt  time.Time `json:"received_at"`
}

// ReceivedReportStore persists reports received by the sink
type ReceivedReportStore struct {
	db         *DB
	maxReports int
	logger     *zap.Logger
}

func NewReceivedReportStore(db *DB, maxReports int, logger *zap.Logger) *ReceivedReportStore {
	if maxReports <= 0 {
		maxReports = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceivedReportStore{
		db:         db,
		maxReports: maxReports,
		logger:     logger,
	}
}

func (s *ReceivedReportStore) RecordReport(report ReceivedReport) error {
	query := `
		INSERT INTO received_reports (report_uuid, build_flavor, version_name, title, description, logs, remote_addr, received_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var logs sql.NullString
	if report.Logs != nil {
		logs = sql.NullString{String: *report.Logs, Valid: true}
	}

	_, err := s.db.Exec(query,
		report.ReportUUID, report.BuildFlavor, report.VersionName, report.Title,
		report.Description, logs, report.RemoteAddr, report.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record report: %w", err)
	}

	if err := s.cleanupOldReports(); err != nil {
		s.logger.Warn("failed to cleanup old reports", zap.Error(err))
	}

	return nil
}

// GetReport retrieves a report by UUID
func (s *ReceivedReportStore) GetReport(reportUUID string) (*ReceivedReport, error) {
	query := `
		SELECT report_uuid, build_flavor, version_name, title, description, logs, remote_addr, received_at
		FROM received_reports
		WHERE report_uuid = ?
	`

	report, err := scanReport(s.db.QueryRow(query, reportUUID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, reportUUID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

// GetRecentReports retrieves the N most recent reports, newest first
func (s *ReceivedReportStore) GetRecentReports(limit int) ([]*ReceivedReport, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT report_uuid, build_flavor, version_name, title, description, logs, remote_addr, received_at
		FROM received_reports
		ORDER BY received_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []*ReceivedReport{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, report)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*ReceivedReport, error) {
	var report ReceivedReport
	var logs sql.NullString
	err := row.Scan(
		&report.ReportUUID, &report.BuildFlavor, &report.VersionName, &report.Title,
		&report.Description, &logs, &report.RemoteAddr, &report.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}
	if logs.Valid {
		report.Logs = &logs.String
	}
	return &report, nil
}

func (s *ReceivedReportStore) cleanupOldReports() error {
	query := `
		DELETE FROM received_reports
		WHERE id NOT IN (
			SELECT id FROM received_reports
			ORDER BY received_at DESC
			LIMIT ?
		)
	`

	_, err := s.db.Exec(query, s.maxReports)
	return err
}
