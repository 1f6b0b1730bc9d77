package results

import (
	"encoding/json"
	"os"
	"time"

	"github.com/safepost/safepost-eval/internal/evaluation"
	apperrors "github.com/safepost/safepost-eval/internal/pkg/errors"
)

// Document is the detailed JSON artifact: every record with its
// expected/actual/correct fields plus run metadata.
type Document struct {
	Timestamp  string  `json:"timestamp"`
	TotalTests int     `json:"total_tests"`
	Results    []Entry `json:"results"`
}

// Entry is one record in the JSON document. Actual and correct fields
// are null for error records.
type Entry struct {
	Image    string              `json:"image"`
	Category string              `json:"category"`
	Expected evaluation.LabelSet `json:"expected"`
	Actual   ActualFields        `json:"actual"`
	Correct  CorrectFields       `json:"correct"`
	Error    *string             `json:"error"`
}

// ActualFields holds the prediction with nullable category flags.
type ActualFields struct {
	Safe          *bool    `json:"safe"`
	Emails        *bool    `json:"emails"`
	Address       *bool    `json:"address"`
	PhoneNumbers  *bool    `json:"phoneNumbers"`
	LicensePlates *bool    `json:"licensePlates"`
	Message       *string  `json:"message"`
	Reasoning     *string  `json:"reasoning"`
	Redactions    []string `json:"redactionSuggestions"`
}

// CorrectFields holds per-category agreement, null for error records.
type CorrectFields struct {
	Safe          *bool `json:"safe"`
	Emails        *bool `json:"emails"`
	Address       *bool `json:"address"`
	PhoneNumbers  *bool `json:"phoneNumbers"`
	LicensePlates *bool `json:"licensePlates"`
}

// WriteJSON writes the detailed results document to path.
func WriteJSON(path string, records []Record, generatedAt time.Time) error {
	doc := Document{
		Timestamp:  generatedAt.Format(time.RFC3339),
		TotalTests: len(records),
		Results:    make([]Entry, 0, len(records)),
	}

	for _, r := range records {
		doc.Results = append(doc.Results, entry(r))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.ResultsError("encoding results JSON", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperrors.ResultsError("writing results JSON", err)
	}
	return nil
}

func entry(r Record) Entry {
	e := Entry{
		Image:    r.ImagePath,
		Category: string(r.Category),
		Expected: r.Expected,
	}

	if r.Errored() {
		errMsg := r.Error
		e.Error = &errMsg
		return e
	}

	e.Actual = ActualFields{
		Safe:          boolPtr(r.Actual.Safe),
		Emails:        boolPtr(r.Actual.Emails),
		Address:       boolPtr(r.Actual.Address),
		PhoneNumbers:  boolPtr(r.Actual.PhoneNumbers),
		LicensePlates: boolPtr(r.Actual.LicensePlates),
		Message:       strPtr(r.Message),
		Reasoning:     strPtr(r.Reasoning),
		Redactions:    r.RedactionSuggestions,
	}
	e.Correct = CorrectFields{
		Safe:          boolPtr(r.Expected.Safe == r.Actual.Safe),
		Emails:        boolPtr(r.Expected.Emails == r.Actual.Emails),
		Address:       boolPtr(r.Expected.Address == r.Actual.Address),
		PhoneNumbers:  boolPtr(r.Expected.PhoneNumbers == r.Actual.PhoneNumbers),
		LicensePlates: boolPtr(r.Expected.LicensePlates == r.Actual.LicensePlates),
	}
	return e
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
