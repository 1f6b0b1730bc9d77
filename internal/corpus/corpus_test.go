package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/safepost/safepost-eval/internal/evaluation"
	apperrors "github.com/safepost/safepost-eval/internal/pkg/errors"
	"github.com/safepost/safepost-eval/internal/pkg/logger"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("fake image bytes"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Address", "house.jpg"))
	writeFile(t, filepath.Join(root, "Address", "street.PNG"))
	writeFile(t, filepath.Join(root, "Email ", "inbox.webp")) // trailing space folder
	writeFile(t, filepath.Join(root, "Phone Numbers", "card.jpeg"))
	writeFile(t, filepath.Join(root, "License Plate", "car.bmp"))
	writeFile(t, filepath.Join(root, "Address", "notes.txt"))      // not an image
	writeFile(t, filepath.Join(root, "Screenshots", "random.jpg")) // unknown folder

	cases, err := Discover(root, logger.Default())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}

	if len(cases) != 5 {
		t.Fatalf("Discover() returned %d cases, want 5", len(cases))
	}

	byCategory := make(map[evaluation.Category]int)
	for _, tc := range cases {
		byCategory[tc.Category]++
		if tc.Expected.Safe {
			t.Errorf("%s: expected safe = true, want false", tc.Path)
		}
		if !tc.Expected.Get(tc.Category) {
			t.Errorf("%s: expected %s = false, want true", tc.Path, tc.Category)
		}
	}

	if byCategory[evaluation.CategoryAddress] != 2 {
		t.Errorf("address cases = %d, want 2", byCategory[evaluation.CategoryAddress])
	}
	if byCategory[evaluation.CategoryEmails] != 1 {
		t.Errorf("emails cases = %d, want 1", byCategory[evaluation.CategoryEmails])
	}
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), logger.Default())
	if err == nil {
		t.Fatal("Discover() = nil error, want corpus error")
	}
	if !apperrors.IsFatal(err) {
		t.Errorf("missing root error not fatal: %v", err)
	}
}

func TestDiscoverEmptyCorpus(t *testing.T) {
	root := t.TempDir()

	// No subfolders at all.
	if _, err := Discover(root, logger.Default()); err == nil {
		t.Error("Discover() on empty root = nil error, want corpus error")
	}

	// Subfolders but no images.
	if err := os.MkdirAll(filepath.Join(root, "Address"), 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := Discover(root, logger.Default()); err == nil {
		t.Error("Discover() with no images = nil error, want corpus error")
	}
}

func TestCategoryForFolder(t *testing.T) {
	cases := []struct {
		folder string
		want   evaluation.Category
		ok     bool
	}{
		{"Address", evaluation.CategoryAddress, true},
		{"Email", evaluation.CategoryEmails, true},
		{"Email ", evaluation.CategoryEmails, true},
		{"License Plate", evaluation.CategoryLicensePlates, true},
		{"Phone Numbers", evaluation.CategoryPhoneNumbers, true},
		{"Screenshots", "", false},
	}

	for _, tc := range cases {
		got, ok := CategoryForFolder(tc.folder)
		if ok != tc.ok || got != tc.want {
			t.Errorf("CategoryForFolder(%q) = %v, %v; want %v, %v", tc.folder, got, ok, tc.want, tc.ok)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	for _, name := range []string{"a.jpg", "b.JPEG", "c.png", "d.gif", "e.webp", "f.BMP"} {
		if !IsImageFile(name) {
			t.Errorf("IsImageFile(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"a.txt", "b.pdf", "noext", "c.jpg.json"} {
		if IsImageFile(name) {
			t.Errorf("IsImageFile(%q) = true, want false", name)
		}
	}
}

func TestVerifyGroundTruth(t *testing.T) {
	good := TestCase{Path: "a.jpg", Category: evaluation.CategoryEmails, Expected: evaluation.ExpectedFor(evaluation.CategoryEmails)}
	bad := good
	bad.Expected.Safe = true

	if got := VerifyGroundTruth([]TestCase{good, good}, logger.Default()); got != 0 {
		t.Errorf("violations = %d, want 0", got)
	}
	if got := VerifyGroundTruth([]TestCase{good, bad}, logger.Default()); got != 1 {
		t.Errorf("violations = %d, want 1", got)
	}
}
