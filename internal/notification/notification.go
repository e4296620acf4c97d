package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/blankon/irgsh-report/pkg/httputil"
)

const maxSummaryLength = 140

// WebhookPayload represents the notification payload sent to webhook
type WebhookPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ReportNotificationInfo contains report details for notification
type ReportNotificationInfo struct {
	ReportUUID  string
	BuildFlavor string
	VersionName string
	Title       string
	Description string
	HasLogs     bool
}

// Notifier posts notifications to a webhook.
type Notifier struct {
	client     httputil.Doer
	webhookURL string
	logger     *zap.Logger
}

func NewNotifier(client httputil.Doer, webhookURL string, logger *zap.Logger) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{client: client, webhookURL: webhookURL, logger: logger}
}

// SendWebhook sends a notification to the configured webhook URL
func (n *Notifier) SendWebhook(ctx context.Context, title, message string) error {
	if n.webhookURL == "" {
		n.logger.Debug("Notification webhook URL not configured, skipping notification")
		return nil
	}

	jsonData, err := json.Marshal(WebhookPayload{Title: title, Message: message})
	if err != nil {
		return fmt.Errorf("failed to marshal notification payload: %w", err)
	}

	status, err := httputil.PostJSON(ctx, n.client, n.webhookURL, jsonData)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if !httputil.IsSuccess(status) {
		return fmt.Errorf("notification webhook: %w", httputil.HTTPStatusError{StatusCode: status})
	}

	n.logger.Info("Notification sent", zap.String("title", title))
	return nil
}

// FormatReportMessage renders a one-line summary of a received report.
// Format: 🐞 [release v1.2.3] Crash on startup: first line of the description (logs attached)
func FormatReportMessage(info ReportNotificationInfo) (string, string) {
	title := fmt.Sprintf("Bug report %s", info.ReportUUID)

	summary := strings.TrimSpace(strings.SplitN(info.Description, "\n", 2)[0])
	if utf8.RuneCountInString(summary) > maxSummaryLength {
		summary = string([]rune(summary)[:maxSummaryLength]) + "…"
	}

	logsInfo := ""
	if info.HasLogs {
		logsInfo = " (logs attached)"
	}

	message := fmt.Sprintf("🐞 [%s %s] %s: %s%s",
		info.BuildFlavor,
		info.VersionName,
		info.Title,
		summary,
		logsInfo,
	)
	return title, message
}

// SendReportNotification announces a received report. Failures are logged.
func (n *Notifier) SendReportNotification(ctx context.Context, info ReportNotificationInfo) {
	title, message := FormatReportMessage(info)

	n.logger.Info("Notification", zap.String("title", title), zap.String("message", message))

	if err := n.SendWebhook(ctx, title, message); err != nil {
		n.logger.Error("Failed to send report notification", zap.Error(err))
	}
}
