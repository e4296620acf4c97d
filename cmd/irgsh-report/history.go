package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/blankon/irgsh-report/internal/config"
	"github.com/blankon/irgsh-report/internal/storage"
)

var errHistoryDisabled = errors.New("submission history is disabled, set client.history_db in the configuration")

func runHistory(cfg config.ClientConfig, limit int, out io.Writer) error {
	if cfg.HistoryDB == "" {
		return errHistoryDisabled
	}

	db, err := storage.NewDB(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer db.Close()

	submissions, err := storage.NewSubmissionStore(db, cfg.MaxHistory, logger).GetRecentSubmissions(limit)
	if err != nil {
		return err
	}
	if len(submissions) == 0 {
		fmt.Fprintln(out, "No reports submitted yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBMITTED\tOUTCOME\tSTATUS\tTITLE")
	for _, s := range submissions {
		status := fmt.Sprintf("%d", s.StatusCode)
		if s.Error != "" {
			status = s.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.SubmittedAt.Local().Format("2006-01-02 15:04:05"), s.Outcome, status, s.Title)
	}
	return w.Flush()
}
