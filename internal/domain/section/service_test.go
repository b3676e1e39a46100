package section

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumap/edumap-api/internal/domain/completeness"
	"github.com/edumap/edumap-api/internal/domain/institution"
)

type key struct {
	id      uuid.UUID
	section completeness.Section
}

type fakeRepo struct {
	mu      sync.Mutex
	records map[key]*Record
	overall map[uuid.UUID]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[key]*Record{}, overall: map[uuid.UUID]int{}}
}

func (f *fakeRepo) Get(ctx context.Context, id uuid.UUID, section completeness.Section) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.records[key{id, section}]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) Put(ctx context.Context, rec *Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.UpdatedAt = time.Now()
	cp := *rec
	f.records[key{rec.InstitutionID, rec.Section}] = &cp
	return nil
}

func (f *fakeRepo) ListByInstitution(ctx context.Context, id uuid.UUID) ([]*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*Record
	for k, r := range f.records {
		if k.id == id {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context, batchSize int, fn func([]*Record) error) error {
	f.mu.Lock()
	all := make([]*Record, 0, len(f.records))
	for _, r := range f.records {
		cp := *r
		all = append(all, &cp)
	}
	f.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Section < all[j].Section })
	for len(all) > 0 {
		n := min(batchSize, len(all))
		if err := fn(all[:n]); err != nil {
			return err
		}
		all = all[n:]
	}
	return nil
}

func (f *fakeRepo) UpdateScore(ctx context.Context, id uuid.UUID, section completeness.Section, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[key{id, section}].Score = score
	return nil
}

// RefreshOverall reads and writes under one lock, like the row lock in Postgres
func (f *fakeRepo) RefreshOverall(ctx context.Context, id uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	scores := map[completeness.Section]int{}
	for k, r := range f.records {
		if k.id == id {
			scores[k.section] = r.Score
		}
	}
	f.overall[id] = completeness.Overall(scores)
	return f.overall[id], nil
}

func (f *fakeRepo) persistedOverall(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overall[id]
}

type fakeInstitutions struct {
	mu    sync.Mutex
	items map[uuid.UUID]*institution.Institution
}

func newFakeInstitutions(items ...*institution.Institution) *fakeInstitutions {
	f := &fakeInstitutions{items: map[uuid.UUID]*institution.Institution{}}
	for _, i := range items {
		f.items[i.ID] = i
	}
	return f
}

func (f *fakeInstitutions) GetByID(ctx context.Context, id uuid.UUID) (*institution.Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[id], nil
}

func (f *fakeInstitutions) GetBySlug(ctx context.Context, slug string) (*institution.Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.items {
		if i.Slug == slug {
			return i, nil
		}
	}
	return nil, nil
}


func newTestService() (*Service, *fakeRepo, *fakeInstitutions, *institution.Institution) {
	inst := &institution.Institution{ID: uuid.New(), Slug: "school-1", Status: institution.StatusPublished}
	repo := newFakeRepo()
	insts := newFakeInstitutions(inst)
	return NewService(repo, insts), repo, insts, inst
}

func TestGetReturnsEmptyRecord(t *testing.T) {
	svc, _, _, inst := newTestService()

	rec, err := svc.Get(context.Background(), inst.ID, completeness.SectionBasic)
	require.NoError(t, err)
	assert.False(t, rec.Saved())
	assert.Equal(t, 0, rec.Score)
	assert.Empty(t, rec.Data)
}

func TestGetUnknownInstitution(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Get(context.Background(), uuid.New(), completeness.SectionBasic)
	assert.ErrorIs(t, err, ErrInstitutionNotFound)

	_, err = svc.Get(context.Background(), uuid.New(), completeness.Section("sports"))
	assert.ErrorIs(t, err, completeness.ErrInvalidSection)
}

func TestSaveScoresAndRefreshesOverall(t *testing.T) {
	svc, repo, _, inst := newTestService()
	ctx := context.Background()
	adminID := uuid.New()

	rec, overall, err := svc.Save(ctx, adminID, inst.ID, completeness.SectionTeachers, completeness.Data{
		"total_teachers":       45,
		"avg_experience_years": 0,
	})
	require.NoError(t, err)
	assert.Equal(t, 74, rec.Score)
	assert.Equal(t, 74, overall)
	assert.Equal(t, adminID, rec.UpdatedBy.UUID)
	assert.Equal(t, 74, repo.persistedOverall(inst.ID))

	// A second stored section pulls the mean down; unsaved sections are ignored
	_, overall, err = svc.Save(ctx, adminID, inst.ID, completeness.SectionMedia, completeness.Data{
		"logo_url": "institutions/x/logo/a.png",
	})
	require.NoError(t, err)
	// media: 1/2*70 = 35, overall round((74+35)/2) = 55
	assert.Equal(t, 55, overall)
	assert.Equal(t, 55, repo.persistedOverall(inst.ID))

	got, err := svc.Get(ctx, inst.ID, completeness.SectionMedia)
	require.NoError(t, err)
	assert.True(t, got.Saved())
	assert.Equal(t, 35, got.Score)
}

func TestSaveOverwritesSection(t *testing.T) {
	svc, _, _, inst := newTestService()
	ctx := context.Background()

	_, _, err := svc.Save(ctx, uuid.Nil, inst.ID, completeness.SectionServices, completeness.Data{"meals_provided": true})
	require.NoError(t, err)

	rec, overall, err := svc.Save(ctx, uuid.Nil, inst.ID, completeness.SectionServices, completeness.Data{"meals_provided": nil})
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Score)
	assert.Equal(t, 0, overall)
	assert.False(t, rec.UpdatedBy.Valid)
}

func TestProgressCoversEverySection(t *testing.T) {
	svc, _, _, inst := newTestService()
	ctx := context.Background()

	_, _, err := svc.Save(ctx, uuid.Nil, inst.ID, completeness.SectionFinance, completeness.Data{
		"fee_monthly_min": 0, "fee_monthly_max": 5000000, "currency": "UZS",
	})
	require.NoError(t, err)

	progress, err := svc.Progress(ctx, inst.ID)
	require.NoError(t, err)
	require.Len(t, progress.Sections, len(completeness.AllSections()))
	assert.Equal(t, 70, progress.Overall)

	for _, sp := range progress.Sections {
		if sp.Section == completeness.SectionFinance {
			assert.True(t, sp.Saved)
			assert.Equal(t, 70, sp.Score)
			assert.Empty(t, sp.MissingRequired)
			assert.Len(t, sp.MissingImportant, 5)
			continue
		}
		assert.False(t, sp.Saved, sp.Section)
		assert.Equal(t, 0, sp.Score)
		assert.Len(t, sp.MissingRequired, len(completeness.RequiredFields(sp.Section)))
	}
}

func TestGetPublishedHidesDrafts(t *testing.T) {
	draft := &institution.Institution{ID: uuid.New(), Slug: "draft", Status: institution.StatusDraft}
	svc := NewService(newFakeRepo(), newFakeInstitutions(draft))

	_, err := svc.GetPublished(context.Background(), "draft", completeness.SectionBasic)
	assert.ErrorIs(t, err, ErrInstitutionNotFound)
}

func TestRecalculate(t *testing.T) {
	svc, repo, _, inst := newTestService()
	ctx := context.Background()

	_, _, err := svc.Save(ctx, uuid.Nil, inst.ID, completeness.SectionTeachers, completeness.Data{"total_teachers": 10})
	require.NoError(t, err)
	_, _, err = svc.Save(ctx, uuid.Nil, inst.ID, completeness.SectionMedia, completeness.Data{"logo_url": "a", "cover_image_url": "b"})
	require.NoError(t, err)

	// Simulate a stale stored score
	require.NoError(t, repo.UpdateScore(ctx, inst.ID, completeness.SectionTeachers, 99))
	repo.mu.Lock()
	repo.overall[inst.ID] = 1
	repo.mu.Unlock()

	result, err := svc.Recalculate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)
	assert.Equal(t, 1, result.Changed)
	assert.Equal(t, 1, result.Institutions)
	assert.Equal(t, 70, repo.persistedOverall(inst.ID))

	rec, err := svc.Get(ctx, inst.ID, completeness.SectionTeachers)
	require.NoError(t, err)
	assert.Equal(t, 70, rec.Score)
}

func TestConcurrentSavesKeepOverallConsistent(t *testing.T) {
	svc, repo, _, inst := newTestService()
	ctx := context.Background()

	payloads := map[completeness.Section]completeness.Data{
		completeness.SectionBasic: {
			"name_uz": "a", "name_ru": "b", "institution_type": "school", "region": "r",
			"district": "d", "address": "x", "phone": "+998",
		},
		completeness.SectionTeachers:       {"total_teachers": nil},
		completeness.SectionServices:       {"meals_provided": true},
		completeness.SectionFinance:        {"currency": "UZS"},
		completeness.SectionInfrastructure: {"has_gym": true},
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(payloads))
	for section, data := range payloads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.Save(ctx, uuid.Nil, inst.ID, section, data)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	recs, err := repo.ListByInstitution(ctx, inst.ID)
	require.NoError(t, err)
	require.Len(t, recs, len(payloads))
	scores := map[completeness.Section]int{}
	for _, r := range recs {
		scores[r.Section] = r.Score
	}
	assert.Equal(t, completeness.Overall(scores), repo.persistedOverall(inst.ID))

	progress, err := svc.Progress(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, progress.Overall, repo.persistedOverall(inst.ID))
}

func TestPatchMergesIntoStoredData(t *testing.T) {
	svc, repo, _, inst := newTestService()
	ctx := context.Background()

	_, _, err := svc.Save(ctx, uuid.Nil, inst.ID, completeness.SectionMedia, completeness.Data{"video_url": "https://v"})
	require.NoError(t, err)

	rec, overall, err := svc.Patch(ctx, uuid.Nil, inst.ID, completeness.SectionMedia, func(d completeness.Data) {
		d["logo_url"] = "institutions/x/logo/a.png"
	})
	require.NoError(t, err)
	assert.Equal(t, "https://v", rec.Data["video_url"])
	assert.Equal(t, "institutions/x/logo/a.png", rec.Data["logo_url"])
	// media: 1/2*70 + 1/3*30 = 45
	assert.Equal(t, 45, rec.Score)
	assert.Equal(t, 45, overall)
	assert.Equal(t, 45, repo.persistedOverall(inst.ID))

	_, _, err = svc.Patch(ctx, uuid.Nil, uuid.New(), completeness.SectionMedia, func(completeness.Data) {})
	assert.ErrorIs(t, err, ErrInstitutionNotFound)
}
