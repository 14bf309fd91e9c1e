package gallery

import (
	"errors"
	"strings"
	"time"

	"batalhao/internal/domain/validation"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Gallery categories
const (
	CategoryOperacoes    = "operacoes"
	CategoryTreinamentos = "treinamentos"
	CategorySede         = "sede"
)

// ValidCategories contains all valid category values.
var ValidCategories = []string{CategoryOperacoes, CategoryTreinamentos, CategorySede}

// UploadsMarker identifies filenames that point at a file we uploaded ourselves.
const UploadsMarker = "/uploads/"

// Domain errors
var (
	ErrEmptyTitle         = validation.New("título é obrigatório")
	ErrTitleTooLong       = validation.New("título não pode exceder 200 caracteres")
	ErrDescriptionTooLong = validation.New("descrição não pode exceder 2000 caracteres")
	ErrInvalidCategory    = validation.New("categoria deve ser uma de: operacoes, treinamentos, sede")
	ErrEmptyFilename      = validation.New("arquivo de imagem é obrigatório")
	ErrNotFound           = errors.New("imagem não encontrada")
)

// Image is one photo in the public gallery.
// INVARIANT: Category is one of ValidCategories once persisted.
type Image struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Filename    string    `json:"filename"` // public path, e.g. /uploads/gallery/<id>.jpg
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks if the Image has valid data.
// PRE: Image struct is populated
// POST: Returns nil if valid, the first violation otherwise
func (i *Image) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return ErrEmptyTitle
	}
	if len(i.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(i.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !IsValidCategory(i.Category) {
		return ErrInvalidCategory
	}
	if i.Filename == "" {
		return ErrEmptyFilename
	}
	return nil
}

// HasUploadedFile reports whether Filename refers to a file under the uploads directory.
// INVARIANT: Image fields are not mutated
func (i *Image) HasUploadedFile() bool {
	return strings.Contains(i.Filename, UploadsMarker)
}

// IsValidCategory reports whether c is a known gallery category.
func IsValidCategory(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}
