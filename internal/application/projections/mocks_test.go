package projections

import (
	"context"
	"errors"
	"strings"

	accountStore "batalhao/internal/adapters/storage/account"
	galleryStore "batalhao/internal/adapters/storage/gallery"
	liveStore "batalhao/internal/adapters/storage/livestream"
	uniformStore "batalhao/internal/adapters/storage/uniform"
	"batalhao/internal/domain/account"
	"batalhao/internal/domain/gallery"
	"batalhao/internal/domain/hierarchy"
	"batalhao/internal/domain/livestream"
	"batalhao/internal/domain/uniform"
	"batalhao/internal/domain/video"
)

var errBoom = errors.New("store down")

type mockGalleryStore struct {
	images []gallery.Image
	err    error
}

// List returns seeded images filtered by category.
func (m *mockGalleryStore) List(_ context.Context, f galleryStore.ListFilter) ([]gallery.Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []gallery.Image
	for _, img := range m.images {
		if f.Category == "" || img.Category == f.Category {
			out = append(out, img)
		}
	}
	return out, nil
}

type mockVideoStore struct {
	videos []video.Video
	err    error
}

func (m *mockVideoStore) List(_ context.Context) ([]video.Video, error) {
	return m.videos, m.err
}

func (m *mockVideoStore) GetByID(_ context.Context, id string) (video.Video, error) {
	for _, v := range m.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return video.Video{}, video.ErrNotFound
}

type mockUniformStore struct {
	uniforms []uniform.Uniform
}

func (m *mockUniformStore) List(_ context.Context, f uniformStore.ListFilter) ([]uniform.Uniform, error) {
	var out []uniform.Uniform
	for _, u := range m.uniforms {
		if f.Type == "" || u.Type == f.Type {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockHierarchyStore struct {
	entries []hierarchy.Entry
}

func (m *mockHierarchyStore) List(_ context.Context) ([]hierarchy.Entry, error) {
	return m.entries, nil
}

type mockLiveStore struct {
	notices []livestream.Notice
}

func (m *mockLiveStore) List(_ context.Context, f liveStore.ListFilter) ([]livestream.Notice, error) {
	var out []livestream.Notice
	for _, n := range m.notices {
		if !f.ActiveOnly || n.Active {
			out = append(out, n)
		}
	}
	return out, nil
}

type mockAccountStore struct {
	accounts []account.Account
	err      error
}

// List applies role, offset and limit over the seeded slice, which is assumed to be in name order.
func (m *mockAccountStore) List(_ context.Context, f accountStore.ListFilter) ([]account.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []account.Account
	for _, a := range m.accounts {
		if f.Role == "" || a.Role == f.Role {
			out = append(out, a)
		}
	}
	if f.Offset >= len(out) {
		return []account.Account{}, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *mockAccountStore) Count(_ context.Context) (int, error) {
	return len(m.accounts), m.err
}

func (m *mockAccountStore) CountByRole(_ context.Context, role string) (int, error) {
	n := 0
	for _, a := range m.accounts {
		if strings.EqualFold(a.Role, role) {
			n++
		}
	}
	return n, m.err
}
