// Package csvparser reads recipient lists from tabular input. The format is
// a header row with an "email" column (case-insensitive) and an optional
// "name" column; rows missing an email are skipped with a warning, not
// fatal.
package csvparser

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"PitchGuard/internal/models"
)

// ParseRecipients parses a recipient CSV. maxRows bounds how many data rows
// are read (excluding header); values at or below zero use a default of 1000.
func ParseRecipients(r io.Reader, maxRows int, log *zap.Logger) ([]models.Recipient, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return nil, errors.New("csv header row is empty")
	}

	emailIdx, nameIdx := -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "email":
			emailIdx = i
		case "name":
			nameIdx = i
		}
	}
	if emailIdx == -1 {
		return nil, errors.New("csv must contain an email column")
	}

	if maxRows <= 0 {
		maxRows = 1000
	}

	recipients := make([]models.Recipient, 0)
	rowNum := 1
	for len(recipients) < maxRows {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rowNum++

		if emailIdx >= len(record) || strings.TrimSpace(record[emailIdx]) == "" {
			log.Warn("skipping recipient row with missing email", zap.Int("row", rowNum))
			continue
		}

		rec := models.Recipient{Email: strings.TrimSpace(record[emailIdx])}
		if nameIdx != -1 && nameIdx < len(record) {
			rec.Name = strings.TrimSpace(record[nameIdx])
		}
		recipients = append(recipients, rec)
	}

	if len(recipients) == 0 {
		return nil, errors.New("csv must contain at least one row with an email")
	}

	return recipients, nil
}
