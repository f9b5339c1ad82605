// Package remedies provides the home remedies dataset: loading it from its
// CSV file, matching health issues against it, and assembling remedy results
// from database rows or AI generation when the database has no match.
package remedies

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/medicure/medicure-api/logging"
)

// ErrDatasetUnavailable is returned when remedy lookup runs before the
// dataset has been loaded into memory.
var ErrDatasetUnavailable = errors.New("remedies dataset not loaded")

// Record is one row of the home remedies dataset.
type Record struct {
	HealthIssue string `json:"health_issue"`
	Remedy      string `json:"remedy"`
	Yoga        string `json:"yoga,omitempty"`
}

// Dataset column headers. Yoga is optional in the file.
const (
	headerHealthIssue = "Health Issue"
	headerRemedy      = "Home Remedy"
	headerYoga        = "Yogasan"
)

// LoadDataset reads the remedies CSV into memory. Files that are not valid
// UTF-8 are decoded as Latin-1, which the source spreadsheets sometimes use.
// Rows missing a health issue or a remedy are dropped; dataset order is kept.
func LoadDataset(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading remedies dataset: %w", err)
	}

	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	var reader io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		logging.Warn("Remedies dataset is not valid UTF-8, decoding as Latin-1", "file", path)
		reader = charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(raw))
	}

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading dataset header: %w", err)
	}

	issueCol, remedyCol, yogaCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case headerHealthIssue:
			issueCol = i
		case headerRemedy:
			remedyCol = i
		case headerYoga:
			yogaCol = i
		}
	}
	if issueCol < 0 || remedyCol < 0 {
		return nil, fmt.Errorf("dataset is missing required columns %q and %q, got header %v",
			headerHealthIssue, headerRemedy, header)
	}

	var records []Record
	var dropped int
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading dataset row: %w", err)
		}

		record := Record{
			HealthIssue: cell(row, issueCol),
			Remedy:      cell(row, remedyCol),
			Yoga:        cell(row, yogaCol),
		}
		if record.HealthIssue == "" || record.Remedy == "" {
			dropped++
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("dataset at %s contains no usable rows", path)
	}

	logging.Info("Remedies dataset loaded",
		"file", path,
		"records", len(records),
		"dropped", dropped,
	)

	return records, nil
}

// cell returns the trimmed value at index i, or "" when the row is short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
