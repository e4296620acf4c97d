package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/blankon/irgsh-report/pkg/httputil"
)

func TestSendWebhook(t *testing.T) {
	var got WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewNotifier(server.Client(), server.URL, nil)
	require.NoError(t, notifier.SendWebhook(context.Background(), "title", "message"))
	assert.Equal(t, WebhookPayload{Title: "title", Message: "message"}, got)
}

func TestSendWebhook_NotConfigured(t *testing.T) {
	notifier := NewNotifier(nil, "", nil)
	assert.NoError(t, notifier.SendWebhook(context.Background(), "title", "message"))
}

func TestSendWebhook_NonSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewNotifier(server.Client(), server.URL, nil).SendWebhook(context.Background(), "t", "m")
	var statusErr httputil.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestFormatReportMessage(t *testing.T) {
	tests := []struct {
		name        string
		info        ReportNotificationInfo
		wantTitle   string
		wantMessage string
	}{
		{
			name: "with logs",
			info: ReportNotificationInfo{
				ReportUUID:  "abc",
				BuildFlavor: "release",
				VersionName: "v1.2.3",
				Title:       "Crash on startup",
				Description: "Opened the app\nand it crashed",
				HasLogs:     true,
			},
			wantTitle:   "Bug report abc",
			wantMessage: "🐞 [release v1.2.3] Crash on startup: Opened the app (logs attached)",
		},
		{
			name: "without logs",
			info: ReportNotificationInfo{
				ReportUUID:  "def",
				BuildFlavor: "dev",
				VersionName: "v0.1",
				Title:       "Typo",
				Description: "  settings label  ",
			},
			wantTitle:   "Bug report def",
			wantMessage: "🐞 [dev v0.1] Typo: settings label",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, message := FormatReportMessage(tt.info)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantMessage, message)
		})
	}
}

func TestFormatReportMessage_LongDescription(t *testing.T) {
	_, message := FormatReportMessage(ReportNotificationInfo{Description: strings.Repeat("a", 500)})
	assert.Contains(t, message, strings.Repeat("a", maxSummaryLength)+"…")
	assert.NotContains(t, message, strings.Repeat("a", maxSummaryLength+1))
}

func TestSendReportNotification_LogsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	notifier := NewNotifier(server.Client(), server.URL, zap.New(core))
	notifier.SendReportNotification(context.Background(), ReportNotificationInfo{ReportUUID: "x", Title: "t", Description: "d"})

	assert.Equal(t, 1, logs.FilterMessage("Failed to send report notification").Len())
}
