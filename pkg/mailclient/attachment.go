package mailclient

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
)

const (
	// DefaultPerFileMax and DefaultTotalMax bound attachment sizes. Most
	// providers bounce messages past 50 MB anyway, so failing locally is
	// strictly better than failing N times on the wire.
	DefaultPerFileMax = 25 << 20
	DefaultTotalMax   = 50 << 20
)

// Part is one fully loaded MIME attachment. Parts are built once per batch
// and reused for every recipient: the bytes are identical across the run.
type Part struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ValidateAttachments checks existence, readability and size budgets for all
// paths. It must run (and pass) before any network activity for a batch so
// that a local mistake cannot leave a batch half sent. Zero limits fall back
// to the defaults.
func ValidateAttachments(paths []string, perFileMax, totalMax int64) error {
	if perFileMax <= 0 {
		perFileMax = DefaultPerFileMax
	}
	if totalMax <= 0 {
		totalMax = DefaultTotalMax
	}

	var total int64
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("attachment '%s' is not readable: %w", path, err)
		}

		if info.IsDir() {
			return fmt.Errorf("attachment '%s' is a directory", path)
		}

		if info.Size() > perFileMax {
			return fmt.Errorf("%w: '%s' is %d bytes, limit %d",
				ErrAttachmentTooLarge, filepath.Base(path), info.Size(), perFileMax)
		}

		total += info.Size()
		if total > totalMax {
			return fmt.Errorf("%w: %d bytes together, limit %d",
				ErrAttachmentBudget, total, totalMax)
		}
	}

	return nil
}

// LoadAttachments reads the files into Parts. It re-runs the size checks:
// the filesystem can change between validation and a long batch reaching the
// load step.
func LoadAttachments(paths []string, perFileMax, totalMax int64) ([]Part, error) {
	if err := ValidateAttachments(paths, perFileMax, totalMax); err != nil {
		return nil, err
	}

	parts := make([]Part, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment '%s' error: %w", path, err)
		}

		parts = append(parts, Part{
			Filename:    filepath.Base(path),
			ContentType: contentTypeFor(path),
			Data:        data,
		})
	}

	return parts, nil
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}

	return "application/octet-stream"
}
