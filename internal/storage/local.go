package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("invalid file name")

// Local stores uploads in Dir and exposes them under PublicPath.
type Local struct {
	Dir        string
	PublicPath string
}

func NewLocal(dir, publicPath string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{Dir: dir, PublicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

// Save writes r under a random name that keeps the extension of original and
// returns the public URL of the stored file.
func (s *Local) Save(original string, r io.Reader) (string, error) {
	if strings.Contains(original, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, original)
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(original))

	f, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close file: %w", err)
	}
	return path.Join(s.PublicPath, name), nil
}

// Delete removes a file previously returned by Save. URLs that do not point
// into this storage are ignored.
func (s *Local) Delete(publicURL string) error {
	prefix := s.PublicPath + "/"
	if !strings.HasPrefix(publicURL, prefix) {
		return nil
	}
	name := strings.TrimPrefix(publicURL, prefix)
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, publicURL)
	}
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
