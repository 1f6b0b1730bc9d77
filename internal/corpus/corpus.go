// Package corpus discovers labeled test images. Ground truth is derived
// from the corpus layout: each subfolder of the root names one PII
// category and every image inside it is a known positive for that
// category.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/safepost/safepost-eval/internal/evaluation"
	apperrors "github.com/safepost/safepost-eval/internal/pkg/errors"
	"github.com/safepost/safepost-eval/internal/pkg/logger"
)

// TestCase is one labeled image awaiting evaluation.
type TestCase struct {
	Path     string
	Category evaluation.Category
	Expected evaluation.LabelSet
}

// folderCategories maps corpus subfolder names to PII categories. Names
// are matched after trimming whitespace; the historical corpus has an
// "Email " folder with a trailing space.
var folderCategories = map[string]evaluation.Category{
	"Address":       evaluation.CategoryAddress,
	"Email":         evaluation.CategoryEmails,
	"License Plate": evaluation.CategoryLicensePlates,
	"Phone Numbers": evaluation.CategoryPhoneNumbers,
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// CategoryForFolder resolves a corpus subfolder name to its PII category.
func CategoryForFolder(name string) (evaluation.Category, bool) {
	cat, ok := folderCategories[strings.TrimSpace(name)]
	return cat, ok
}

// IsImageFile reports whether the file name has a supported image
// extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Discover walks the corpus root and collects all test cases. A missing
// root or an empty corpus is fatal; an unmapped subfolder is skipped with
// a warning.
func Discover(root string, log *logger.Logger) ([]TestCase, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, apperrors.CorpusError(fmt.Sprintf("corpus root %q not found", root))
	}

	var cases []TestCase
	subfolders := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subfolders++

		category, ok := CategoryForFolder(entry.Name())
		if !ok {
			log.Warn("unknown corpus folder, skipping", "folder", entry.Name())
			continue
		}

		dir := filepath.Join(root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			return nil, apperrors.CorpusError(fmt.Sprintf("reading corpus folder %q: %v", dir, err))
		}

		for _, f := range files {
			if f.IsDir() || !IsImageFile(f.Name()) {
				continue
			}
			cases = append(cases, TestCase{
				Path:     filepath.Join(dir, f.Name()),
				Category: category,
				Expected: evaluation.ExpectedFor(category),
			})
		}
	}

	if subfolders == 0 {
		return nil, apperrors.CorpusError(fmt.Sprintf("no category subfolders found in %q", root))
	}
	if len(cases) == 0 {
		return nil, apperrors.CorpusError(fmt.Sprintf("no test images found in %q", root))
	}

	return cases, nil
}

// VerifyGroundTruth checks the corpus invariant that every ground-truth
// record is unsafe. Violations are logged as data-integrity warnings and
// left in the data as-is; the number of violations is returned.
func VerifyGroundTruth(cases []TestCase, log *logger.Logger) int {
	violations := 0
	for _, tc := range cases {
		if tc.Expected.Safe {
			violations++
			log.WithImage(tc.Path).Warn("ground truth marked safe, corpus expects every image unsafe")
		}
	}
	return violations
}
