package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"batalhao/internal/domain/hierarchy"
)

// HierarchyStoreForOrchestrator is the store surface hierarchy commands need.
type HierarchyStoreForOrchestrator interface {
	Insert(ctx context.Context, e hierarchy.Entry) error
	Update(ctx context.Context, id string, fn func(*hierarchy.Entry) error) (hierarchy.Entry, error)
	Delete(ctx context.Context, id string) (hierarchy.Entry, bool, error)
}

// CreateHierarchyEntryInput carries input for CreateHierarchyEntry.
type CreateHierarchyEntryInput struct {
	Name     string
	Patente  string
	Position string
	Order    int
}

// CreateHierarchyEntryDeps holds dependencies for CreateHierarchyEntry.
type CreateHierarchyEntryDeps struct {
	HierarchyStore HierarchyStoreForOrchestrator
	GenerateID     func() string
	Now            func() time.Time
}

// ExecuteCreateHierarchyEntry adds a position to the chain of command.
func ExecuteCreateHierarchyEntry(ctx context.Context, input CreateHierarchyEntryInput, deps CreateHierarchyEntryDeps) (hierarchy.Entry, error) {
	e := hierarchy.Entry{
		ID:        deps.GenerateID(),
		Name:      strings.TrimSpace(input.Name),
		Patente:   strings.TrimSpace(input.Patente),
		Position:  strings.TrimSpace(input.Position),
		Order:     input.Order,
		CreatedAt: deps.Now(),
	}
	if err := e.Validate(); err != nil {
		return hierarchy.Entry{}, err
	}
	if err := deps.HierarchyStore.Insert(ctx, e); err != nil {
		return hierarchy.Entry{}, err
	}

	slog.Info("hierarchy_event", "event", "entry_created", "entry_id", e.ID, "patente", e.Patente)
	return e, nil
}

// UpdateHierarchyEntryInput carries a partial update.
type UpdateHierarchyEntryInput struct {
	ID    string
	Patch hierarchy.Patch
}

// UpdateHierarchyEntryDeps holds dependencies for UpdateHierarchyEntry.
type UpdateHierarchyEntryDeps struct {
	HierarchyStore HierarchyStoreForOrchestrator
	Now            func() time.Time
}

// ExecuteUpdateHierarchyEntry merges the provided fields into the stored entry.
func ExecuteUpdateHierarchyEntry(ctx context.Context, input UpdateHierarchyEntryInput, deps UpdateHierarchyEntryDeps) (hierarchy.Entry, error) {
	if input.ID == "" {
		return hierarchy.Entry{}, ErrMissingID
	}
	if input.Patch.IsEmpty() {
		return hierarchy.Entry{}, hierarchy.ErrEmptyPatch
	}

	now := deps.Now()
	updated, err := deps.HierarchyStore.Update(ctx, input.ID, func(e *hierarchy.Entry) error {
		next := *e
		next.Apply(input.Patch, now)
		if err := next.Validate(); err != nil {
			return err
		}
		*e = next
		return nil
	})
	if err != nil {
		return hierarchy.Entry{}, err
	}

	slog.Info("hierarchy_event", "event", "entry_updated", "entry_id", updated.ID)
	return updated, nil
}

// DeleteHierarchyEntryInput carries input for DeleteHierarchyEntry.
type DeleteHierarchyEntryInput struct {
	ID string
}

// DeleteHierarchyEntryDeps holds dependencies for DeleteHierarchyEntry.
type DeleteHierarchyEntryDeps struct {
	HierarchyStore HierarchyStoreForOrchestrator
}

// ExecuteDeleteHierarchyEntry removes an entry.
func ExecuteDeleteHierarchyEntry(ctx context.Context, input DeleteHierarchyEntryInput, deps DeleteHierarchyEntryDeps) (hierarchy.Entry, error) {
	if input.ID == "" {
		return hierarchy.Entry{}, ErrMissingID
	}
	removed, found, err := deps.HierarchyStore.Delete(ctx, input.ID)
	if err != nil {
		return hierarchy.Entry{}, err
	}
	if !found {
		return hierarchy.Entry{}, hierarchy.ErrNotFound
	}
	slog.Info("hierarchy_event", "event", "entry_deleted", "entry_id", removed.ID)
	return removed, nil
}
