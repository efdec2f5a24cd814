package service

import (
	"context"
	"testing"

	"github.com/docshub/backend/internal/database"
	"github.com/docshub/backend/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() *Service {
	return New(database.NewMemoryStore())
}

func mustCreate(t *testing.T, svc *Service, d document.Document) (string, string) {
	t.Helper()
	id, slug, err := svc.Create(context.Background(), &d)
	require.NoError(t, err)
	return id, slug
}

func TestCreateDerivesSlugFromTitle(t *testing.T) {
	svc := newService()
	id, slug := mustCreate(t, svc, document.Document{
		Title: "Install Docker on Ubuntu", Content: "apt install docker", Category: "linux",
	})
	assert.NotEmpty(t, id)
	assert.Equal(t, "install-docker-on-ubuntu", slug)
}

func TestCreateKeepsExplicitSlug(t *testing.T) {
	svc := newService()
	_, slug := mustCreate(t, svc, document.Document{
		Title: "Some Title", Slug: "My Custom Slug", Content: "c", Category: "web",
	})
	// an explicit slug is used as given, not re-slugified
	assert.Equal(t, "My Custom Slug", slug)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc := newService()
	mustCreate(t, svc, document.Document{Title: "Install Docker", Content: "a", Category: "linux"})

	_, _, err := svc.Create(context.Background(), &document.Document{
		Title: "install   docker", Content: "b", Category: "linux",
	})
	require.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	svc := newService()
	_, _, err := svc.Create(context.Background(), &document.Document{
		Title: "T", Content: "c", Category: "macos",
	})
	var verr *document.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	mustCreate(t, svc, document.Document{
		Title: "Install Docker on Ubuntu", Content: "apt install docker", Category: "linux",
		Tags: []string{"docker", "containers"},
	})
	mustCreate(t, svc, document.Document{
		Title: "IIS Setup", Content: "enable the web server role", Category: "windows",
		Tags: []string{"iis"},
	})
	mustCreate(t, svc, document.Document{
		Title: "Nginx Reverse Proxy", Content: "proxy_pass and docker networks", Category: "web",
	})

	// no filters: everything, in stable order
	all, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "install-docker-on-ubuntu", all[0].Slug)

	// category exact match
	linux, err := svc.List(ctx, ListQuery{Category: "linux"})
	require.NoError(t, err)
	require.Len(t, linux, 1)
	assert.Equal(t, "linux", linux[0].Category)

	// tag membership
	tagged, err := svc.List(ctx, ListQuery{Tag: "containers"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "install-docker-on-ubuntu", tagged[0].Slug)

	// free text matches title OR content OR tags, case-insensitively
	found, err := svc.List(ctx, ListQuery{Q: "DOCKER"})
	require.NoError(t, err)
	require.Len(t, found, 2)

	// AND composition with q
	found, err = svc.List(ctx, ListQuery{Q: "docker", Category: "web"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "nginx-reverse-proxy", found[0].Slug)

	// limit caps the result set
	capped, err := svc.List(ctx, ListQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, capped, 2)

	// q is a literal string, not a regex
	none, err := svc.List(ctx, ListQuery{Q: ".*"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestListProjection(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	mustCreate(t, svc, document.Document{
		Title: "With Cover", Content: "body", Category: "web",
		CoverImage: "data:image/png;base64,AAAA", CoverMime: "image/png",
	})
	mustCreate(t, svc, document.Document{Title: "Without Cover", Content: "body", Category: "web"})

	items, err := svc.List(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "data:image/png;base64,AAAA", items[0].CoverImage)
	assert.Nil(t, items[1].CoverImage, "missing cover_image projects as null")
	assert.NotNil(t, items[1].Tags, "tags project as [] even when absent")
}

func TestGetBySlug(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id, _ := mustCreate(t, svc, document.Document{
		Title: "Install Docker on Ubuntu", Content: "apt install docker", Category: "linux",
	})

	rec, err := svc.GetBySlug(ctx, "install-docker-on-ubuntu")
	require.NoError(t, err)
	assert.Equal(t, id, rec["id"])
	assert.NotContains(t, rec, "_id")
	assert.Equal(t, "apt install docker", rec["content"])

	_, err = svc.GetBySlug(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBySlug(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	mustCreate(t, svc, document.Document{Title: "Temp", Content: "c", Category: "web"})

	require.NoError(t, svc.DeleteBySlug(ctx, "temp"))
	require.ErrorIs(t, svc.DeleteBySlug(ctx, "temp"), ErrNotFound)
	_, err := svc.GetBySlug(ctx, "temp")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestOperationsOnDisconnectedStore(t *testing.T) {
	ctx := context.Background()
	svc := New(database.Connect(ctx, "", "", 0))

	_, _, err := svc.Create(ctx, &document.Document{Title: "T", Content: "c", Category: "linux"})
	require.ErrorIs(t, err, database.ErrUnavailable)
	_, err = svc.List(ctx, ListQuery{})
	require.ErrorIs(t, err, database.ErrUnavailable)
	_, err = svc.GetBySlug(ctx, "x")
	require.ErrorIs(t, err, database.ErrUnavailable)
	require.ErrorIs(t, svc.DeleteBySlug(ctx, "x"), database.ErrUnavailable)
}
