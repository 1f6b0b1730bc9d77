package results

import (
	"io"
	"os"
	"path/filepath"

	"github.com/safepost/safepost-eval/internal/pkg/logger"
)

// CopyImages copies every record's image into dir, one subfolder per
// category, so the artifact bundle is self-contained. A per-image copy
// failure is a warning and the copy continues; the number of images
// actually copied is returned.
func CopyImages(records []Record, dir string, log *logger.Logger) int {
	copied := 0
	for _, r := range records {
		dest := filepath.Join(dir, string(r.Category), filepath.Base(r.ImagePath))
		if err := copyFile(r.ImagePath, dest); err != nil {
			log.WithImage(r.ImagePath).WithError(err).Warn("could not copy image")
			continue
		}
		copied++
	}
	return copied
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}
