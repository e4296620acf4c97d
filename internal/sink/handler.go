// Package sink implements a small receiving endpoint for bug reports, used
// for development and self-hosted setups.
package sink

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blankon/irgsh-report/internal/notification"
	"github.com/blankon/irgsh-report/internal/report/entity"
	"github.com/blankon/irgsh-report/internal/report/usecase"
	"github.com/blankon/irgsh-report/internal/storage"
	"github.com/blankon/irgsh-report/pkg/httputil"
)

const maxBodyBytes = 1 << 20

type ReportStore interface {
	RecordReport(report storage.ReceivedReport) error
	GetReport(reportUUID string) (*storage.ReceivedReport, error)
	GetRecentReports(limit int) ([]*storage.ReceivedReport, error)
}

type Notifier interface {
	SendReportNotification(ctx context.Context, info notification.ReportNotificationInfo)
}

type SubmitResponse struct {
	ID        string `json:"id,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

type Handler struct {
	store    ReportStore
	deduper  Deduper
	notifier Notifier
	logger   *zap.Logger
	version  string

	// notifications tracks webhook deliveries still in flight.
	notifications sync.WaitGroup

	newID func() string
	now   func() time.Time
}

// NewHandler builds the sink handler. deduper and notifier are optional.
func NewHandler(store ReportStore, deduper Deduper, notifier Notifier, logger *zap.Logger, version string) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:    store,
		deduper:  deduper,
		notifier: notifier,
		logger:   logger,
		version:  version,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/report", h.submitReport)
	mux.HandleFunc("/reports", h.listReports)
	mux.HandleFunc("/reports/", h.getReport)
	mux.HandleFunc("/version", h.getVersion)
	return mux
}

func (h *Handler) submitReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		httputil.ResponseError("method not allowed", http.StatusMethodNotAllowed, w)
		return
	}

	var req entity.ReportRequest
	if err := httputil.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), &req); err != nil {
		h.logger.Debug("failed to decode report", zap.Error(err))
		httputil.ResponseError("malformed report: "+err.Error(), http.StatusBadRequest, w)
		return
	}

	if err := usecase.ValidateReport(req); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrInvalidReport) {
			status = http.StatusUnprocessableEntity
		}
		httputil.ResponseError(err.Error(), status, w)
		return
	}

	dedupeKey := ReportKey(req.Title, req.Description)
	if h.deduper != nil {
		seen, err := h.deduper.Seen(r.Context(), dedupeKey)
		if err != nil {
			h.logger.Warn("duplicate check failed, accepting report", zap.Error(err))
		} else if seen {
			h.logger.Info("duplicate report dropped", zap.String("title", req.Title))
			httputil.ResponseJSON(SubmitResponse{Duplicate: true}, http.StatusOK, w)
			return
		}
	}

	report := storage.ReceivedReport{
		ReportUUID:  h.newID(),
		BuildFlavor: req.BuildFlavor,
		VersionName: req.VersionName,
		Title:       req.Title,
		Description: req.Description,
		Logs:        req.Logs,
		RemoteAddr:  remoteHost(r.RemoteAddr),
		ReceivedAt:  h.now().UTC(),
	}
	if err := h.store.RecordReport(report); err != nil {
		h.logger.Error("failed to store report", zap.Error(err))
		if h.deduper != nil {
			// A retry of this report must not be dropped as a duplicate.
			if err := h.deduper.Forget(r.Context(), dedupeKey); err != nil {
				h.logger.Warn("failed to release duplicate key", zap.Error(err))
			}
		}
		httputil.ResponseError("failed to store report", http.StatusInternalServerError, w)
		return
	}

	h.logger.Info("report received",
		zap.String("id", report.ReportUUID),
		zap.String("build_flavor", report.BuildFlavor),
		zap.String("version_name", report.VersionName),
	)

	if h.notifier != nil {
		info := notification.ReportNotificationInfo{
			ReportUUID:  report.ReportUUID,
			BuildFlavor: report.BuildFlavor,
			VersionName: report.VersionName,
			Title:       report.Title,
			Description: report.Description,
			HasLogs:     report.Logs != nil,
		}
		h.notifications.Add(1)
		go func() {
			defer h.notifications.Done()
			h.notifier.SendReportNotification(context.Background(), info)
		}()
	}

	httputil.ResponseJSON(SubmitResponse{ID: report.ReportUUID}, http.StatusCreated, w)
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		httputil.ResponseError("method not allowed", http.StatusMethodNotAllowed, w)
		return
	}

	limit := 10
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			httputil.ResponseError("limit should be a positive number", http.StatusBadRequest, w)
			return
		}
		limit = parsed
	}

	reports, err := h.store.GetRecentReports(limit)
	if err != nil {
		h.logger.Error("failed to list reports", zap.Error(err))
		httputil.ResponseError("failed to list reports", http.StatusInternalServerError, w)
		return
	}

	httputil.ResponseJSON(reports, http.StatusOK, w)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		httputil.ResponseError("method not allowed", http.StatusMethodNotAllowed, w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/reports/")
	if id == "" || strings.Contains(id, "/") {
		httputil.ResponseError("report not found", http.StatusNotFound, w)
		return
	}

	report, err := h.store.GetReport(id)
	if errors.Is(err, storage.ErrReportNotFound) {
		httputil.ResponseError("report not found", http.StatusNotFound, w)
		return
	}
	if err != nil {
		h.logger.Error("failed to get report", zap.String("id", id), zap.Error(err))
		httputil.ResponseError("failed to get report", http.StatusInternalServerError, w)
		return
	}

	httputil.ResponseJSON(report, http.StatusOK, w)
}

// Wait blocks until every pending report notification has been sent.
func (h *Handler) Wait() {
	h.notifications.Wait()
}

func (h *Handler) getVersion(w http.ResponseWriter, r *http.Request) {
	httputil.ResponseJSON(VersionResponse{Version: h.version}, http.StatusOK, w)
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
