package usecase

import "context"

// ReportAPI delivers an encoded report to the backend.
// It returns the HTTP status of the response, or an error when no response
// was received.
type ReportAPI interface {
	PostReport(ctx context.Context, body []byte) (int, error)
}

// MarshalFunc serializes a report request. json.Marshal satisfies it.
type MarshalFunc func(v interface{}) ([]byte, error)
