package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"batalhao/internal/domain/hierarchy"
	"batalhao/internal/domain/video"
)

type demoHierarchyStore interface {
	HierarchyStoreForOrchestrator
	List(ctx context.Context) ([]hierarchy.Entry, error)
}

type demoVideoStore interface {
	VideoStoreForOrchestrator
	List(ctx context.Context) ([]video.Video, error)
}

// DemoSeedDeps holds the collections that get demo content.
type DemoSeedDeps struct {
	HierarchyStore demoHierarchyStore
	VideoStore     demoVideoStore
	GenerateID     func() string
	Now            func() time.Time
}

var demoHierarchy = []CreateHierarchyEntryInput{
	{Name: "Cel. Andrade", Patente: "Coronel", Position: "Comandante do Batalhão", Order: 0},
	{Name: "Ten. Cel. Moreira", Patente: "Tenente-Coronel", Position: "Subcomandante", Order: 1},
	{Name: "Maj. Ribeiro", Patente: "Major", Position: "Chefe de Operações", Order: 2},
	{Name: "Cap. Souza", Patente: "Capitão", Position: "Comandante da 1ª Companhia", Order: 3},
}

var demoVideos = []CreateVideoInput{
	{Title: "Treinamento de abordagem", Description: "Procedimento padrão de abordagem veicular.", YouTubeID: "dQw4w9WgXcQ"},
	{Title: "Formatura semanal", Description: "Formatura da tropa no pátio da sede.", YouTubeID: "9bZkp7q19f0"},
}

// ExecuteSeedDemoContent fills empty hierarchy and video collections with
// sample records so a fresh development install has something to show.
// Collections that already hold records are left alone.
func ExecuteSeedDemoContent(ctx context.Context, deps DemoSeedDeps) error {
	entries, err := deps.HierarchyStore.List(ctx)
	if err != nil {
		return fmt.Errorf("seed demo hierarchy: %w", err)
	}
	if len(entries) == 0 {
		hDeps := CreateHierarchyEntryDeps{HierarchyStore: deps.HierarchyStore, GenerateID: deps.GenerateID, Now: deps.Now}
		for _, in := range demoHierarchy {
			if _, err := ExecuteCreateHierarchyEntry(ctx, in, hDeps); err != nil {
				return fmt.Errorf("seed demo hierarchy %s: %w", in.Name, err)
			}
		}
		slog.Info("seed_event", "event", "demo_hierarchy_seeded", "count", len(demoHierarchy))
	}

	videos, err := deps.VideoStore.List(ctx)
	if err != nil {
		return fmt.Errorf("seed demo videos: %w", err)
	}
	if len(videos) == 0 {
		vDeps := CreateVideoDeps{VideoStore: deps.VideoStore, GenerateID: deps.GenerateID, Now: deps.Now}
		for _, in := range demoVideos {
			if _, err := ExecuteCreateVideo(ctx, in, vDeps); err != nil {
				return fmt.Errorf("seed demo video %s: %w", in.YouTubeID, err)
			}
		}
		slog.Info("seed_event", "event", "demo_videos_seeded", "count", len(demoVideos))
	}
	return nil
}
