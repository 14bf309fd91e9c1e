// Package app assembles the stores shared by the server and portalctl.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	web "batalhao/internal/adapters/http"
	"batalhao/internal/adapters/http/perf"
	"batalhao/internal/adapters/storage"
	accountStore "batalhao/internal/adapters/storage/account"
	galleryStore "batalhao/internal/adapters/storage/gallery"
	hierarchyStore "batalhao/internal/adapters/storage/hierarchy"
	"batalhao/internal/adapters/storage/jsonstore"
	liveStore "batalhao/internal/adapters/storage/livestream"
	uniformStore "batalhao/internal/adapters/storage/uniform"
	"batalhao/internal/adapters/storage/uploads"
	videoStore "batalhao/internal/adapters/storage/video"
	"batalhao/internal/config"
	"batalhao/internal/domain/gallery"
	"batalhao/internal/domain/hierarchy"
	"batalhao/internal/domain/livestream"
	"batalhao/internal/domain/uniform"
	"batalhao/internal/domain/video"
)

// Collection file names under the data directory.
const (
	GalleryFile   = "gallery.json"
	VideosFile    = "videos.json"
	UniformsFile  = "uniforms.json"
	HierarchyFile = "hierarchy.json"
	LivesFile     = "lives.json"
)

// verifier is the untyped view of a jsonstore.Collection.
type verifier interface {
	Name() string
	Path() string
	Verify(ctx context.Context) (int, error)
}

// Portal owns the open database and every store built on it.
type Portal struct {
	DB        *sql.DB
	Collector *perf.Collector
	Stores    *web.Stores

	collections []verifier
}

// Open opens the account database and binds the JSON collections. A nil
// collector disables timing.
func Open(cfg *config.Config, collector *perf.Collector) (*Portal, error) {
	db, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	timed := storage.NewTimedDB(db, collector)

	opts := func(name string) jsonstore.Options {
		return jsonstore.Options{Name: name, Collector: collector}
	}
	path := func(file string) string { return filepath.Join(cfg.DataDir, file) }

	galleryC := jsonstore.Open[gallery.Image](path(GalleryFile), opts("gallery"))
	videoC := jsonstore.Open[video.Video](path(VideosFile), opts("videos"))
	uniformC := jsonstore.Open[uniform.Uniform](path(UniformsFile), opts("uniforms"))
	hierarchyC := jsonstore.Open[hierarchy.Entry](path(HierarchyFile), opts("hierarchy"))
	livesC := jsonstore.Open[livestream.Notice](path(LivesFile), opts("lives"))

	return &Portal{
		DB:        db,
		Collector: collector,
		Stores: &web.Stores{
			AccountStore:    accountStore.NewSQLiteStore(timed),
			GalleryStore:    galleryStore.NewJSONStore(galleryC),
			VideoStore:      videoStore.NewJSONStore(videoC),
			UniformStore:    uniformStore.NewJSONStore(uniformC),
			HierarchyStore:  hierarchyStore.NewJSONStore(hierarchyC),
			LiveNoticeStore: liveStore.NewJSONStore(livesC),
			Files:           uploads.New(cfg.UploadsDir),
		},
		collections: []verifier{galleryC, videoC, uniformC, hierarchyC, livesC},
	}, nil
}

// Close releases the database.
func (p *Portal) Close() error {
	return p.DB.Close()
}

// CollectionReport is the outcome of a strict parse of one collection file.
type CollectionReport struct {
	Name    string
	Path    string
	Records int
	Err     error
}

// VerifyCollections parses every collection strictly. It never repairs files.
func (p *Portal) VerifyCollections(ctx context.Context) []CollectionReport {
	reports := make([]CollectionReport, 0, len(p.collections))
	for _, c := range p.collections {
		n, err := c.Verify(ctx)
		reports = append(reports, CollectionReport{Name: c.Name(), Path: c.Path(), Records: n, Err: err})
	}
	return reports
}

// SchemaVersion reports the migrated account schema version.
func (p *Portal) SchemaVersion() (int, error) {
	v, err := storage.SchemaVersion(p.DB)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}
