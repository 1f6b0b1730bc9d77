package results

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/safepost/safepost-eval/internal/evaluation"
	apperrors "github.com/safepost/safepost-eval/internal/pkg/errors"
)

// csvHeader is the fixed column layout of the records CSV. Each category
// contributes an expected/actual/correct triple; actual and correct are
// blank for error rows.
var csvHeader = []string{
	"Image Path",
	"Category",
	"Expected Safe",
	"Actual Safe",
	"Safe Correct",
	"Expected Emails",
	"Actual Emails",
	"Emails Correct",
	"Expected Address",
	"Actual Address",
	"Address Correct",
	"Expected Phone Numbers",
	"Actual Phone Numbers",
	"Phone Numbers Correct",
	"Expected License Plates",
	"Actual License Plates",
	"License Plates Correct",
	"Message",
	"Reasoning",
	"Redaction Suggestions",
	"Error",
}

// csvCategories is the category order of the triples in csvHeader.
var csvCategories = []evaluation.Category{
	evaluation.CategorySafe,
	evaluation.CategoryEmails,
	evaluation.CategoryAddress,
	evaluation.CategoryPhoneNumbers,
	evaluation.CategoryLicensePlates,
}

// WriteCSV writes all records to a CSV file at path.
func WriteCSV(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.ResultsError("creating records CSV", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return apperrors.ResultsError("writing CSV header", err)
	}

	for _, r := range records {
		if err := w.Write(csvRow(r)); err != nil {
			return apperrors.ResultsError("writing CSV row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return apperrors.ResultsError("flushing records CSV", err)
	}
	return nil
}

func csvRow(r Record) []string {
	row := make([]string, 0, len(csvHeader))
	row = append(row, r.ImagePath, string(r.Category))

	for _, cat := range csvCategories {
		expected := r.Expected.Get(cat)
		row = append(row, strconv.FormatBool(expected))
		if r.Errored() {
			row = append(row, "", "")
			continue
		}
		actual := r.Actual.Get(cat)
		row = append(row,
			strconv.FormatBool(actual),
			strconv.FormatBool(expected == actual),
		)
	}

	if r.Errored() {
		row = append(row, "", "", "", r.Error)
	} else {
		row = append(row, r.Message, r.Reasoning, strings.Join(r.RedactionSuggestions, "; "), "")
	}
	return row
}

// ReadCSV reloads records from a previously written CSV. Rows are
// classified as errored on the Error column alone, never by failed
// boolean parsing; a malformed boolean in a non-error row is a data
// error and aborts the load.
func ReadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.ResultsError("opening records CSV", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.ResultsError("parsing records CSV", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ResultsError("records CSV is empty", nil)
	}

	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		record, err := parseRow(row)
		if err != nil {
			return nil, apperrors.ResultsError(fmt.Sprintf("row %d", i+2), err)
		}
		records = append(records, record)
	}
	return records, nil
}

func checkHeader(header []string) error {
	if len(header) != len(csvHeader) {
		return apperrors.ResultsError(
			fmt.Sprintf("unexpected CSV header: %d columns, want %d", len(header), len(csvHeader)), nil)
	}
	for i, name := range csvHeader {
		if header[i] != name {
			return apperrors.ResultsError(
				fmt.Sprintf("unexpected CSV column %d: %q, want %q", i+1, header[i], name), nil)
		}
	}
	return nil
}

func parseRow(row []string) (Record, error) {
	if len(row) != len(csvHeader) {
		return Record{}, fmt.Errorf("has %d columns, want %d", len(row), len(csvHeader))
	}

	r := Record{
		ImagePath: row[0],
		Category:  evaluation.Category(row[1]),
		Error:     row[20],
	}

	for i, cat := range csvCategories {
		expected, err := strconv.ParseBool(row[2+3*i])
		if err != nil {
			return Record{}, fmt.Errorf("expected %s: %w", cat, err)
		}
		r.Expected.Set(cat, expected)

		// Actual and correct cells are blank exactly when the row is an
		// error record; the error column is the only filter.
		if r.Errored() {
			continue
		}
		actual, err := strconv.ParseBool(row[3+3*i])
		if err != nil {
			return Record{}, fmt.Errorf("actual %s: %w", cat, err)
		}
		r.Actual.Set(cat, actual)
	}

	if !r.Errored() {
		r.Message = row[17]
		r.Reasoning = row[18]
		if row[19] != "" {
			r.RedactionSuggestions = strings.Split(row[19], "; ")
		}
	}
	return r, nil
}
