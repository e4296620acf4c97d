// Package logcollect reads the tail of an application log file so it can be
// attached to a bug report.
package logcollect

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hpcloud/tail"

	"github.com/blankon/irgsh-report/internal/report/entity"
)

const DefaultMaxLines = 500

// Collect returns the last maxLines lines of the file at path, trimmed from
// the oldest side to fit entity.MaxLogsLength characters. An empty path or an
// empty file means no logs and yields nil.
func Collect(path string, maxLines int) (*string, error) {
	if path == "" {
		return nil, nil
	}
	if maxLines <= 0 {
		maxLines = DefaultMaxLines
	}

	t, err := tail.TailFile(path, tail.Config{
		Follow:    false,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer t.Cleanup()

	ring := make([]string, 0, maxLines)
	for line := range t.Lines {
		if line.Err != nil {
			t.Stop()
			return nil, fmt.Errorf("failed to read log file: %w", line.Err)
		}
		if len(ring) == maxLines {
			ring = ring[1:]
		}
		ring = append(ring, line.Text)
	}
	if err := t.Wait(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	if len(ring) == 0 {
		return nil, nil
	}

	logs := fitLines(ring, entity.MaxLogsLength)
	return &logs, nil
}

// fitLines joins lines with "\n", dropping the oldest ones until the result
// is at most limit runes. A lone line above the limit keeps its tail.
func fitLines(lines []string, limit int) string {
	total := 0
	start := len(lines)
	for start > 0 {
		n := utf8.RuneCountInString(lines[start-1])
		if start < len(lines) {
			n++ // separator
		}
		if total+n > limit {
			break
		}
		total += n
		start--
	}

	if start == len(lines) && len(lines) > 0 {
		last := []rune(lines[len(lines)-1])
		return string(last[len(last)-limit:])
	}
	return strings.Join(lines[start:], "\n")
}
