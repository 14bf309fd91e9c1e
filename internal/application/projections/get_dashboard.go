package projections

import (
	"context"

	"golang.org/x/sync/errgroup"

	galleryStore "batalhao/internal/adapters/storage/gallery"
	liveStore "batalhao/internal/adapters/storage/livestream"
	uniformStore "batalhao/internal/adapters/storage/uniform"
	"batalhao/internal/domain/account"
)

// DashboardDeps holds dependencies for the dashboard projection.
type DashboardDeps struct {
	GalleryStore    GalleryStore
	VideoStore      VideoStore
	UniformStore    UniformStore
	HierarchyStore  HierarchyStore
	LiveNoticeStore LiveNoticeStore
	AccountStore    AccountStore
}

// DashboardResult is the admin dashboard summary.
type DashboardResult struct {
	GalleryImages  int              `json:"galleryImages"`
	GalleryByCat   map[string]int   `json:"galleryByCategory"`
	Videos         int              `json:"videos"`
	Uniforms       int              `json:"uniforms"`
	HierarchySize  int              `json:"hierarchy"`
	ActiveLives    int              `json:"activeLives"`
	Accounts       int              `json:"accounts"`
	AccountsByRole map[string]int   `json:"accountsByRole"`
	LatestLives    []LiveNoticeView `json:"latestLives"`
}

// maxLatestLives caps the live notices echoed on the dashboard.
const maxLatestLives = 5

// QueryDashboard counts every collection in parallel.
// PRE: all deps set
// POST: counts reflect a best-effort snapshot; no cross-collection consistency
func QueryDashboard(ctx context.Context, deps DashboardDeps) (DashboardResult, error) {
	res := DashboardResult{
		GalleryByCat:   map[string]int{},
		AccountsByRole: map[string]int{},
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		images, err := deps.GalleryStore.List(ctx, galleryStore.ListFilter{})
		if err != nil {
			return err
		}
		res.GalleryImages = len(images)
		for _, img := range images {
			res.GalleryByCat[img.Category]++
		}
		return nil
	})
	g.Go(func() error {
		videos, err := deps.VideoStore.List(ctx)
		res.Videos = len(videos)
		return err
	})
	g.Go(func() error {
		list, err := deps.UniformStore.List(ctx, uniformStore.ListFilter{})
		res.Uniforms = len(list)
		return err
	})
	g.Go(func() error {
		entries, err := deps.HierarchyStore.List(ctx)
		res.HierarchySize = len(entries)
		return err
	})
	g.Go(func() error {
		lives, err := deps.LiveNoticeStore.List(ctx, liveStore.ListFilter{ActiveOnly: true})
		if err != nil {
			return err
		}
		res.ActiveLives = len(lives)
		if len(lives) > maxLatestLives {
			lives = lives[:maxLatestLives]
		}
		res.LatestLives = make([]LiveNoticeView, 0, len(lives))
		for _, n := range lives {
			res.LatestLives = append(res.LatestLives, LiveNoticeView{Notice: n, MessageHTML: RenderMarkdown(n.Message)})
		}
		return nil
	})
	g.Go(func() error {
		total, err := deps.AccountStore.Count(ctx)
		if err != nil {
			return err
		}
		res.Accounts = total
		for _, role := range account.ValidRoles {
			n, err := deps.AccountStore.CountByRole(ctx, role)
			if err != nil {
				return err
			}
			res.AccountsByRole[role] = n
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return DashboardResult{}, err
	}
	return res, nil
}
