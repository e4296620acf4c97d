package storage

const schema = `
CREATE TABLE IF NOT EXISTS submissions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    submission_uuid TEXT UNIQUE NOT NULL,
    endpoint TEXT NOT NULL,
    title TEXT NOT NULL,
    has_logs BOOLEAN DEFAULT FALSE,
    outcome TEXT NOT NULL,
    status_code INTEGER DEFAULT 0,
    error TEXT DEFAULT '',
    submitted_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS received_reports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    report_uuid TEXT UNIQUE NOT NULL,
    build_flavor TEXT NOT NULL,
    version_name TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    logs TEXT,
    remote_addr TEXT DEFAULT '',
    received_at DATETIME NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at ON submissions(submitted_at DESC);
CREATE INDEX IF NOT EXISTS idx_received_reports_received_at ON received_reports(received_at DESC);
CREATE INDEX IF NOT EXISTS idx_received_reports_report_uuid ON received_reports(report_uuid);
`
