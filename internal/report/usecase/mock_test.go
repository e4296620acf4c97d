package usecase

import (
	"context"
	"sync"
)

// ReportAPIMock is a function-field implementation of ReportAPI.
type ReportAPIMock struct {
	PostReportFunc func(ctx context.Context, body []byte) (int, error)

	mu    sync.Mutex
	calls [][]byte
}

func (mock *ReportAPIMock) PostReport(ctx context.Context, body []byte) (int, error) {
	if mock.PostReportFunc == nil {
		panic("ReportAPIMock.PostReportFunc: method is nil but ReportAPI.PostReport was just called")
	}
	mock.mu.Lock()
	mock.calls = append(mock.calls, body)
	mock.mu.Unlock()
	return mock.PostReportFunc(ctx, body)
}

// PostReportCalls returns the bodies PostReport was called with.
func (mock *ReportAPIMock) PostReportCalls() [][]byte {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls
}
