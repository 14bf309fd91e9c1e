package uniform

import (
	"errors"
	"strings"
	"time"

	"batalhao/internal/domain/validation"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 120
	MaxDescriptionLength = 2000
)

// Uniform types
const (
	TypeOperacional = "operacional"
	TypeGala        = "gala"
	TypeTreinamento = "treinamento"
)

// ValidTypes contains all valid uniform types.
var ValidTypes = []string{TypeOperacional, TypeGala, TypeTreinamento}

// Domain errors
var (
	ErrEmptyName          = validation.New("nome é obrigatório")
	ErrNameTooLong        = validation.New("nome não pode exceder 120 caracteres")
	ErrDescriptionTooLong = validation.New("descrição não pode exceder 2000 caracteres")
	ErrInvalidType        = validation.New("tipo deve ser um de: operacional, gala, treinamento")
	ErrEmptyFilename      = validation.New("imagem do fardamento é obrigatória")
	ErrNotFound           = errors.New("fardamento não encontrado")
)

// Uniform is a regulation uniform with a reference picture.
type Uniform struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Filename    string    `json:"filename"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Validate checks if the Uniform has valid data.
// PRE: Uniform struct is populated
// POST: Returns nil if valid, the first violation otherwise
func (u *Uniform) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if len(u.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(u.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if !IsValidType(u.Type) {
		return ErrInvalidType
	}
	if u.Filename == "" {
		return ErrEmptyFilename
	}
	return nil
}

// IsValidType reports whether t is a known uniform type.
func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
