package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/blankon/irgsh-report/internal/config"
	"github.com/blankon/irgsh-report/internal/logcollect"
	"github.com/blankon/irgsh-report/internal/report/entity"
	"github.com/blankon/irgsh-report/internal/report/repository"
	"github.com/blankon/irgsh-report/internal/report/usecase"
	"github.com/blankon/irgsh-report/internal/storage"
)

var (
	errReportRejected = errors.New("report was rejected by the server")
	errMissingField   = errors.New("title and description are required, use --title and --description")
)

type submitOptions struct {
	Title       string
	Description string
	LogsFile    string
	LogLines    int
	Interactive bool
}

// prompter asks the user for a field value; replaced in tests.
var prompter = promptField

func loadClientConfig(endpoint string) (config.ClientConfig, error) {
	cfg, err := config.LoadConfig()
	switch {
	case err == nil:
		logger.Debug("configuration loaded", zap.String("path", cfg.Path))
	case !errors.Is(err, config.ErrConfigNotFound) && !errors.Is(err, os.ErrNotExist):
		return config.ClientConfig{}, fmt.Errorf("failed to load configuration: %w", err)
	case endpoint == "":
		return config.ClientConfig{}, fmt.Errorf("irgsh-report need to be configured first, set IRGSH_REPORT_CONFIG_PATH or pass --endpoint: %w", err)
	default:
		logger.Debug("no configuration file, using flags only", zap.Error(err))
	}

	client := cfg.Client
	if endpoint != "" {
		client.Endpoint = endpoint
	}
	if err := client.Validate(); err != nil {
		return config.ClientConfig{}, fmt.Errorf("invalid client configuration: %w", err)
	}
	return client, nil
}

func buildFlavor(cfg config.ClientConfig) string {
	if cfg.BuildFlavor != "" {
		return cfg.BuildFlavor
	}
	return flavor
}

func versionName(cfg config.ClientConfig) string {
	if cfg.VersionName != "" {
		return cfg.VersionName
	}
	if version != "" {
		return version
	}
	return "unknown"
}

func fillMissingFields(opts *submitOptions) (err error) {
	if opts.Title == "" {
		if !opts.Interactive {
			return errMissingField
		}
		opts.Title, err = prompter("Title", entity.MaxTitleLength)
		if err != nil {
			return err
		}
	}
	if opts.Description == "" {
		if !opts.Interactive {
			return errMissingField
		}
		opts.Description, err = prompter("Description", entity.MaxDescriptionLength)
		if err != nil {
			return err
		}
	}
	return nil
}

func runSubmit(ctx context.Context, cfg config.ClientConfig, opts submitOptions, out io.Writer) error {
	if err := fillMissingFields(&opts); err != nil {
		return err
	}

	logsFile := opts.LogsFile
	if logsFile == "" {
		logsFile = cfg.LogFile
	}
	logLines := opts.LogLines
	if logLines == 0 {
		logLines = cfg.LogLines
	}
	logs, err := logcollect.Collect(logsFile, logLines)
	if err != nil {
		return err
	}

	api := repository.NewHTTPReportAPI(&http.Client{}, cfg.Endpoint)
	submitter := usecase.NewReportSubmitter(api, json.Marshal, logger, buildFlavor(cfg), versionName(cfg))

	result, err := submitter.Submit(ctx, opts.Title, opts.Description, logs)
	if err != nil {
		return err
	}
	outcome := <-result

	recordHistory(cfg, storage.SubmissionInfo{
		SubmissionUUID: uuid.NewString(),
		Endpoint:       api.URL(),
		Title:          opts.Title,
		HasLogs:        logs != nil,
		Outcome:        outcome.Kind.String(),
		StatusCode:     outcome.StatusCode,
		Error:          errorText(outcome.Err),
		SubmittedAt:    time.Now().UTC(),
	})

	switch outcome.Kind {
	case entity.OutcomeSuccess:
		fmt.Fprintln(out, "Report sent. Thank you!")
		return nil
	case entity.OutcomeRejected:
		return fmt.Errorf("%w (status %d)", errReportRejected, outcome.StatusCode)
	default:
		return outcome.Err
	}
}

// recordHistory is best effort: a broken history database never fails a
// submission that already happened.
func recordHistory(cfg config.ClientConfig, info storage.SubmissionInfo) {
	if cfg.HistoryDB == "" {
		return
	}

	db, err := storage.NewDB(cfg.HistoryDB)
	if err != nil {
		logger.Warn("failed to open history database", zap.Error(err))
		return
	}
	defer db.Close()

	if err := storage.NewSubmissionStore(db, cfg.MaxHistory, logger).RecordSubmission(info); err != nil {
		logger.Warn("failed to record submission", zap.Error(err))
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
