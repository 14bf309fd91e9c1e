package hierarchy

import (
	"errors"
	"sort"
	"strings"
	"time"

	"batalhao/internal/domain/validation"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength     = 120
	MaxPatenteLength  = 60
	MaxPositionLength = 120
)

// Domain errors
var (
	ErrEmptyName       = validation.New("nome é obrigatório")
	ErrNameTooLong     = validation.New("nome não pode exceder 120 caracteres")
	ErrEmptyPatente    = validation.New("patente é obrigatória")
	ErrPatenteTooLong  = validation.New("patente não pode exceder 60 caracteres")
	ErrPositionTooLong = validation.New("função não pode exceder 120 caracteres")
	ErrNegativeOrder   = validation.New("ordem não pode ser negativa")
	ErrEmptyPatch      = validation.New("nenhum campo para atualizar")
	ErrNotFound        = errors.New("membro da hierarquia não encontrado")
)

// Entry is one position in the battalion chain of command.
// Name is free text; entries are not linked to accounts.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Patente   string    `json:"patente"`
	Position  string    `json:"position"`
	Order     int       `json:"order"` // lower comes first
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Name     *string
	Patente  *string
	Position *string
	Order    *int
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Patente == nil && p.Position == nil && p.Order == nil
}

// Validate checks if the Entry has valid data.
// PRE: Entry struct is populated
// POST: Returns nil if valid, the first violation otherwise
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if len(e.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(e.Patente) == "" {
		return ErrEmptyPatente
	}
	if len(e.Patente) > MaxPatenteLength {
		return ErrPatenteTooLong
	}
	if len(e.Position) > MaxPositionLength {
		return ErrPositionTooLong
	}
	if e.Order < 0 {
		return ErrNegativeOrder
	}
	return nil
}

// Apply merges the patch into the entry.
// POST: provided fields are replaced, UpdatedAt is now; caller must Validate
func (e *Entry) Apply(p Patch, now time.Time) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Patente != nil {
		e.Patente = *p.Patente
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Order != nil {
		e.Order = *p.Order
	}
	e.UpdatedAt = now
}

// Sort orders entries by Order, then by Name.
func Sort(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Order != entries[j].Order {
			return entries[i].Order < entries[j].Order
		}
		return entries[i].Name < entries[j].Name
	})
}
