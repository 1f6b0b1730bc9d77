package evaluation

import "time"

// Category identifies one of the detection verdicts returned by the
// analyze endpoint.
type Category string

const (
	CategorySafe          Category = "safe"
	CategoryEmails        Category = "emails"
	CategoryAddress       Category = "address"
	CategoryPhoneNumbers  Category = "phoneNumbers"
	CategoryLicensePlates Category = "licensePlates"
)

// Categories returns all verdict categories in report order.
func Categories() []Category {
	return []Category{
		CategorySafe,
		CategoryEmails,
		CategoryAddress,
		CategoryPhoneNumbers,
		CategoryLicensePlates,
	}
}

// PIICategories returns the four detectable PII types, excluding the
// aggregate safe/unsafe verdict.
func PIICategories() []Category {
	return []Category{
		CategoryEmails,
		CategoryAddress,
		CategoryPhoneNumbers,
		CategoryLicensePlates,
	}
}

// DisplayName returns the human-readable name used in reports and charts.
func (c Category) DisplayName() string {
	switch c {
	case CategorySafe:
		return "Safe/Unsafe"
	case CategoryEmails:
		return "Emails"
	case CategoryAddress:
		return "Address"
	case CategoryPhoneNumbers:
		return "Phone Numbers"
	case CategoryLicensePlates:
		return "License Plates"
	}
	return string(c)
}

// LabelSet maps each category to a boolean verdict. It represents either
// ground truth derived from the corpus folder or a detector prediction.
type LabelSet struct {
	Safe          bool `json:"safe"`
	Emails        bool `json:"emails"`
	Address       bool `json:"address"`
	PhoneNumbers  bool `json:"phoneNumbers"`
	LicensePlates bool `json:"licensePlates"`
}

// Get returns the verdict for the given category.
func (ls LabelSet) Get(c Category) bool {
	switch c {
	case CategorySafe:
		return ls.Safe
	case CategoryEmails:
		return ls.Emails
	case CategoryAddress:
		return ls.Address
	case CategoryPhoneNumbers:
		return ls.PhoneNumbers
	case CategoryLicensePlates:
		return ls.LicensePlates
	}
	return false
}

// Set assigns the verdict for the given category.
func (ls *LabelSet) Set(c Category, v bool) {
	switch c {
	case CategorySafe:
		ls.Safe = v
	case CategoryEmails:
		ls.Emails = v
	case CategoryAddress:
		ls.Address = v
	case CategoryPhoneNumbers:
		ls.PhoneNumbers = v
	case CategoryLicensePlates:
		ls.LicensePlates = v
	}
}

// ExpectedFor builds the ground-truth label set for a corpus category.
// Every test image is a known positive for exactly one PII category, so
// safe is always false.
func ExpectedFor(c Category) LabelSet {
	var ls LabelSet
	ls.Set(c, true)
	ls.Safe = false
	return ls
}

// Outcome is the normalized per-image input to the metrics engine,
// regardless of whether it came from a live run or a reloaded CSV.
// When Errored is set, Actual is meaningless and the record is excluded
// from every confusion matrix.
type Outcome struct {
	Expected LabelSet
	Actual   LabelSet
	Errored  bool
}

// CategoryResult bundles the confusion counts and derived scores for one
// category.
type CategoryResult struct {
	Counts ConfusionCounts `json:"counts"`
	Scores Scores          `json:"scores"`
}

// Report is the aggregate output of an evaluation run. It is built once
// and read-only afterwards.
type Report struct {
	Timestamp time.Time                   `json:"timestamp"`
	Total     int                         `json:"total"`
	Errored   int                         `json:"errored"`
	Results   map[Category]CategoryResult `json:"results"`
}

// Result returns the per-category result, zero-valued if absent.
func (r *Report) Result(c Category) CategoryResult {
	return r.Results[c]
}
