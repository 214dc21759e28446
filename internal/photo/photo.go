// Package photo loads and validates food photos before they are sent for
// detection.
package photo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/hammamikhairi/bigbite/internal/domain"
)

// MaxSize is the largest photo accepted (25 MiB).
const MaxSize = 25 << 20

// Accepted media types, checked against the file content rather than its
// extension.
var Accepted = []string{"image/jpeg", "image/png", "image/webp", "image/heic"}

// Load reads the photo at path and validates its type and size. Validation
// failures are returned as *domain.ValidationError; I/O failures are
// returned wrapped.
func Load(path string) (domain.Image, error) {
	path = cleanPath(path)

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Image{}, &domain.ValidationError{Reason: fmt.Sprintf("File not found: %s", path)}
		}
		return domain.Image{}, fmt.Errorf("photo: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.Image{}, &domain.ValidationError{Reason: fmt.Sprintf("%s is a directory", path)}
	}
	if err := checkSize(info.Size()); err != nil {
		return domain.Image{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Image{}, fmt.Errorf("photo: read %s: %w", path, err)
	}
	return FromBytes(filepath.Base(path), data)
}

// FromBytes validates an in-memory photo.
func FromBytes(name string, data []byte) (domain.Image, error) {
	if err := checkSize(int64(len(data))); err != nil {
		return domain.Image{}, err
	}

	mt, ok := Sniff(data)
	if !ok {
		return domain.Image{}, &domain.ValidationError{
			Reason: "Invalid file type. Support: JPG, PNG, WEBP, HEIC",
		}
	}
	return domain.Image{Name: name, MediaType: mt, Data: data}, nil
}

// Sniff detects the media type of data and reports whether it is accepted.
func Sniff(data []byte) (string, bool) {
	m := mimetype.Detect(data)
	for _, a := range Accepted {
		if m.Is(a) {
			return a, true
		}
	}
	return m.String(), false
}

func checkSize(n int64) error {
	if n > MaxSize {
		return &domain.ValidationError{
			Reason: fmt.Sprintf("File too large (%s). Max %s", humanize.IBytes(uint64(n)), humanize.IBytes(MaxSize)),
		}
	}
	return nil
}

// cleanPath trims the quoting terminals add when a file is dropped onto
// the window, and expands a leading ~.
func cleanPath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.Trim(p, `"'`)
	p = strings.ReplaceAll(p, `\ `, " ")
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return p
}
