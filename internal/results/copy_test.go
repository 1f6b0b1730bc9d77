package results

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/safepost/safepost-eval/internal/evaluation"
	"github.com/safepost/safepost-eval/internal/pkg/logger"
)

func TestCopyImages(t *testing.T) {
	srcDir := t.TempDir()
	inbox := filepath.Join(srcDir, "Email ", "inbox.png")
	house := filepath.Join(srcDir, "Address", "house.jpg")
	for _, path := range []string{inbox, house} {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("bytes of "+filepath.Base(path)), 0644); err != nil {
			t.Fatal(err)
		}
	}

	records := []Record{
		{ImagePath: inbox, Category: evaluation.CategoryEmails},
		{ImagePath: house, Category: evaluation.CategoryAddress},
		{ImagePath: filepath.Join(srcDir, "Address", "gone.jpg"), Category: evaluation.CategoryAddress},
	}

	destDir := filepath.Join(t.TempDir(), "images")
	copied := CopyImages(records, destDir, logger.Default())

	// The missing source is a warning, not an abort.
	if copied != 2 {
		t.Errorf("copied = %d, want 2", copied)
	}

	for _, want := range []struct {
		path    string
		content string
	}{
		{filepath.Join(destDir, "emails", "inbox.png"), "bytes of inbox.png"},
		{filepath.Join(destDir, "address", "house.jpg"), "bytes of house.jpg"},
	} {
		data, err := os.ReadFile(want.path)
		if err != nil {
			t.Errorf("copy missing: %v", err)
			continue
		}
		if string(data) != want.content {
			t.Errorf("%s content = %q, want %q", want.path, data, want.content)
		}
	}

	if _, err := os.Stat(filepath.Join(destDir, "address", "gone.jpg")); err == nil {
		t.Error("missing source produced a destination file")
	}
}

func TestCopyImagesEmpty(t *testing.T) {
	if copied := CopyImages(nil, filepath.Join(t.TempDir(), "images"), logger.Default()); copied != 0 {
		t.Errorf("copied = %d, want 0", copied)
	}
}
