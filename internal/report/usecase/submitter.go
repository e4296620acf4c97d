package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/blankon/irgsh-report/internal/report/entity"
	"github.com/blankon/irgsh-report/pkg/httputil"
)

// ReportSubmitter validates bug reports and posts them to the report endpoint.
// It holds no per-call state and is safe for concurrent use when its
// ReportAPI is.
type ReportSubmitter struct {
	api         ReportAPI
	marshal     MarshalFunc
	logger      *zap.Logger
	buildFlavor string
	versionName string
}

func NewReportSubmitter(
	api ReportAPI,
	marshal MarshalFunc,
	logger *zap.Logger,
	buildFlavor string,
	versionName string,
) *ReportSubmitter {
	if marshal == nil {
		marshal = json.Marshal
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportSubmitter{
		api:         api,
		marshal:     marshal,
		logger:      logger,
		buildFlavor: buildFlavor,
		versionName: versionName,
	}
}

// Submit validates the report and sends it in the background. Validation and
// encoding errors are returned synchronously; otherwise the channel receives
// exactly one Outcome and is closed. A nil logs means no logs are attached.
func (s *ReportSubmitter) Submit(
	ctx context.Context,
	title string,
	description string,
	logs *string,
) (<-chan entity.Outcome, error) {
	req := entity.ReportRequest{
		BuildFlavor: s.buildFlavor,
		VersionName: s.versionName,
		Title:       title,
		Description: description,
		Logs:        logs,
	}
	if err := ValidateReport(req); err != nil {
		return nil, err
	}

	body, err := s.marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	result := make(chan entity.Outcome, 1)
	go func() {
		defer close(result)
		result <- s.send(ctx, body)
	}()

	return result, nil
}

// SubmitAndWait is Submit followed by a receive on the outcome channel.
func (s *ReportSubmitter) SubmitAndWait(
	ctx context.Context,
	title string,
	description string,
	logs *string,
) (entity.Outcome, error) {
	result, err := s.Submit(ctx, title, description, logs)
	if err != nil {
		return entity.Outcome{}, err
	}
	return <-result, nil
}

func (s *ReportSubmitter) send(ctx context.Context, body []byte) entity.Outcome {
	status, err := s.api.PostReport(ctx, body)
	if err != nil {
		s.logger.Debug("report transport failed", zap.Error(err))
		return entity.TransportFailure(fmt.Errorf("failed to send report: %w", err))
	}

	if !httputil.IsSuccess(status) {
		s.logger.Error("Response is not successful", zap.Int("status", status))
		return entity.Rejected(status)
	}

	return entity.Success(status)
}
