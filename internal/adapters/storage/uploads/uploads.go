// Package uploads stores user-submitted images on local disk and maps them
// to the public /uploads/ URL space.
package uploads

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"batalhao/internal/domain/validation"
)

// PublicPrefix is the URL prefix the uploads directory is served under.
const PublicPrefix = "/uploads/"

// MaxImageBytes caps a single uploaded image.
const MaxImageBytes = 5 << 20

var (
	ErrNotImage   = validation.New("arquivo deve ser uma imagem (png, jpeg, webp, gif)")
	ErrTooLarge   = validation.New("arquivo deve ter no máximo 5 MB")
	ErrEmptyFile  = validation.New("arquivo é obrigatório")
	ErrOutsideDir = errors.New("uploads: path escapes uploads directory")
	ErrNoDir      = errors.New("uploads: no uploads directory configured")
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Dir is an uploads root on disk. A nil *Dir refuses saves and removes nothing.
type Dir struct {
	root string
}

// New returns a Dir rooted at root. The directory is created on first save.
func New(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the filesystem root.
func (d *Dir) Root() string {
	if d == nil {
		return ""
	}
	return d.root
}

// SaveImage writes src to <root>/<sub>/<name><ext> and returns its public path
// (e.g. /uploads/gallery/<name>.jpg). The type is sniffed from the content,
// not taken from the client.
func (d *Dir) SaveImage(sub, name string, src io.Reader) (string, error) {
	if d == nil {
		return "", ErrNoDir
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	head = head[:n]
	ext, ok := extensions[http.DetectContentType(head)]
	if !ok {
		return "", ErrNotImage
	}

	if strings.ContainsAny(sub, `/\`) || strings.ContainsAny(name, `/\`) || sub == ".." || name == ".." {
		return "", ErrOutsideDir
	}
	dir := filepath.Join(d.root, sub)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	full := filepath.Join(dir, name+ext)
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create: %w", err)
	}

	limited := io.LimitReader(io.MultiReader(bytes.NewReader(head), src), MaxImageBytes+1)
	written, copyErr := io.Copy(f, limited)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		os.Remove(full)
		return "", fmt.Errorf("write: %w", copyErr)
	case closeErr != nil:
		os.Remove(full)
		return "", fmt.Errorf("close: %w", closeErr)
	case written > MaxImageBytes:
		os.Remove(full)
		return "", ErrTooLarge
	}
	return PublicPrefix + sub + "/" + name + ext, nil
}

// Remove deletes the file behind a stored public path.
// Paths without the /uploads/ marker are ignored, as are files already gone.
func (d *Dir) Remove(publicPath string) error {
	if d == nil {
		return nil
	}
	full, ok, err := d.resolve(publicPath)
	if err != nil || !ok {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// resolve maps a public path to a file under root. ok is false when the
// path does not point into the uploads space.
func (d *Dir) resolve(publicPath string) (string, bool, error) {
	i := strings.Index(publicPath, PublicPrefix)
	if i < 0 {
		return "", false, nil
	}
	rel := filepath.Clean(filepath.FromSlash(publicPath[i+len(PublicPrefix):]))
	if rel == "." || rel == ".." || filepath.IsAbs(rel) || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, ErrOutsideDir
	}
	return filepath.Join(d.root, rel), true, nil
}
