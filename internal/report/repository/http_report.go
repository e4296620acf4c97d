package repository

import (
	"context"
	"net/http"
	"strings"

	"github.com/blankon/irgsh-report/pkg/httputil"
)

const reportPath = "/report"

// HTTPReportAPI posts encoded reports to <endpoint>/report.
type HTTPReportAPI struct {
	client    httputil.Doer
	reportURL string
}

// NewHTTPReportAPI uses http.DefaultClient when client is nil.
func NewHTTPReportAPI(client httputil.Doer, endpoint string) *HTTPReportAPI {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPReportAPI{
		client:    client,
		reportURL: strings.TrimSuffix(endpoint, "/") + reportPath,
	}
}

// URL returns the full report URL.
func (api *HTTPReportAPI) URL() string {
	return api.reportURL
}

func (api *HTTPReportAPI) PostReport(ctx context.Context, body []byte) (int, error) {
	return httputil.PostJSON(ctx, api.client, api.reportURL, body)
}
