package institution

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tashkent International School", "tashkent-international-school"},
		{"  School #1 -- (Yunusobod) ", "school-1-yunusobod"},
		{"Школа №5", "shkola-5"},
		{"O'zbekiston xalqaro universiteti", "ozbekiston-xalqaro-universiteti"},
		{"Ўқув маркази", "oquv-markazi"},
		{"!!!", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Slugify(tc.in), tc.in)
	}
}

func TestServiceCreateGeneratesSlug(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	inst, err := svc.Create(context.Background(), &CreateRequest{
		Type: "school", NameUz: "1-maktab", NameEn: "School No 1", Region: "Toshkent",
	})
	require.NoError(t, err)
	assert.Equal(t, "school-no-1", inst.Slug)
	assert.Equal(t, StatusDraft, inst.Status)
	assert.Equal(t, 0, inst.Completeness)

	// Same name again gets a short suffix
	second, err := svc.Create(context.Background(), &CreateRequest{
		Type: "school", NameUz: "1-maktab", NameEn: "School No 1", Region: "Toshkent",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(second.Slug, "school-no-1-"))
	assert.Len(t, second.Slug, len("school-no-1-")+8)
}

func TestServiceCreateRetriesOnSlugRace(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{ErrSlugTaken, nil}
	svc := NewService(repo)

	inst, err := svc.Create(context.Background(), &CreateRequest{Type: "course", NameUz: "IT Park", Region: "Toshkent"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(inst.Slug, "it-park-"))
}

func TestServiceCreateRejectsInvalidType(t *testing.T) {
	svc := NewService(newFakeRepo())
	_, err := svc.Create(context.Background(), &CreateRequest{Type: "lyceum", NameUz: "X", Region: "Y"})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestServicePublishRequiresCompleteness(t *testing.T) {
	low := &Institution{ID: uuid.New(), Slug: "low", Status: StatusDraft, Completeness: MinPublishCompleteness - 1}
	ready := &Institution{ID: uuid.New(), Slug: "ready", Status: StatusDraft, Completeness: MinPublishCompleteness}
	svc := NewService(newFakeRepo(low, ready))
	ctx := context.Background()

	_, err := svc.Publish(ctx, low.ID)
	assert.ErrorIs(t, err, ErrNotReadyToPublish)

	inst, err := svc.Publish(ctx, ready.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, inst.Status)

	got, err := svc.GetPublished(ctx, "ready")
	require.NoError(t, err)
	assert.Equal(t, ready.ID, got.ID)

	_, err = svc.Unpublish(ctx, ready.ID)
	require.NoError(t, err)
	_, err = svc.GetPublished(ctx, "ready")
	assert.ErrorIs(t, err, ErrInstitutionNotFound)

	_, err = svc.Publish(ctx, uuid.New())
	assert.True(t, errors.Is(err, ErrInstitutionNotFound))
}

func TestServiceUpdatePartial(t *testing.T) {
	inst := &Institution{ID: uuid.New(), Slug: "s", Type: TypeSchool, NameUz: "Eski", Region: "Toshkent"}
	repo := newFakeRepo(inst)
	svc := NewService(repo)

	name := "Yangi"
	phone := "+998 90 123 45 67"
	updated, err := svc.Update(context.Background(), inst.ID, &UpdateRequest{NameUz: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Yangi", updated.NameUz)
	assert.Equal(t, "Toshkent", updated.Region)
	assert.Equal(t, phone, updated.Phone.String)

	bad := "lyceum"
	_, err = svc.Update(context.Background(), inst.ID, &UpdateRequest{Type: &bad})
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestServiceListPublicForcesPublished(t *testing.T) {
	repo := newFakeRepo(
		&Institution{ID: uuid.New(), Slug: "a", Status: StatusPublished},
		&Institution{ID: uuid.New(), Slug: "b", Status: StatusDraft},
	)
	svc := NewService(repo)

	draft := StatusDraft
	items, total, err := svc.ListPublic(context.Background(), &Filter{Status: &draft}, &Pagination{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "a", items[0].Slug)
	assert.Equal(t, StatusPublished, *repo.lastFilter.Status)
}
