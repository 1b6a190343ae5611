package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type RoundRecord struct {
	Round int
	RoundMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of dir named by the current timestamp.
func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteRoundRecords(records []RoundRecord) error {
	path := filepath.Join(w.baseDir, "round_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create round records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{
		"round", "power", "year", "phase", "duration",
		"proposals", "accepts", "rejects", "confirms", "unknown",
		"malformed", "outdated", "inconsistent",
		"accepted", "declined", "withdrawn", "proposed", "confirmed",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write round records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Round),
			string(record.Power),
			strconv.Itoa(record.Time.Year),
			record.Time.Phase.String(),
			record.Duration.String(),
			strconv.Itoa(record.Proposals),
			strconv.Itoa(record.Accepts),
			strconv.Itoa(record.Rejects),
			strconv.Itoa(record.Confirms),
			strconv.Itoa(record.Unknown),
			strconv.Itoa(record.Malformed),
			strconv.Itoa(record.Outdated),
			strconv.Itoa(record.Inconsistent),
			strconv.Itoa(record.Accepted),
			strconv.Itoa(record.Declined),
			strconv.Itoa(record.Withdrawn),
			strconv.Itoa(record.Proposed),
			strconv.Itoa(record.Confirmed),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write round record row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
