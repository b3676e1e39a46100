package section

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumap/edumap-api/internal/domain/completeness"
)

var recordCols = []string{"institution_id", "section", "data", "score", "updated_by", "updated_at"}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepositoryGetDecodesPayload(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM institution_sections WHERE institution_id = \$1 AND section = \$2`).
		WithArgs(id, "teachers").
		WillReturnRows(sqlmock.NewRows(recordCols).
			AddRow(id.String(), "teachers", []byte(`{"total_teachers":45,"avg_experience_years":0}`), 74, nil, now))

	rec, err := repo.Get(context.Background(), id, completeness.SectionTeachers)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 74, rec.Score)
	assert.Equal(t, float64(45), rec.Data["total_teachers"])
	assert.False(t, rec.UpdatedBy.Valid)
	assert.Equal(t, 74, completeness.Score(rec.Section, completeness.Data(rec.Data)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryPutUpserts(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO institution_sections .+ ON CONFLICT \(institution_id, section\) DO UPDATE`).
		WithArgs(id, "media", []byte(`{"logo_url":"k"}`), 35, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	rec := &Record{InstitutionID: id, Section: completeness.SectionMedia, Data: Payload{"logo_url": "k"}, Score: 35}
	require.NoError(t, repo.Put(context.Background(), rec))
	assert.True(t, rec.Saved())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListAllPaginates(t *testing.T) {
	repo, mock := newMockRepo(t)
	a, b := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`ORDER BY institution_id, section\s+LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(recordCols).
			AddRow(a.String(), "basic", []byte(`{}`), 0, nil, now).
			AddRow(a.String(), "media", []byte(`{}`), 0, nil, now))
	mock.ExpectQuery(`WHERE \(institution_id, section\) > \(\$1, \$2\)`).
		WithArgs(a, "media", 2).
		WillReturnRows(sqlmock.NewRows(recordCols).
			AddRow(b.String(), "basic", []byte(`{}`), 0, nil, now))

	var seen int
	err := repo.ListAll(context.Background(), 2, func(batch []*Record) error {
		seen += len(batch)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPayloadScan(t *testing.T) {
	var p Payload
	require.NoError(t, p.Scan(nil))
	assert.Empty(t, p)

	require.NoError(t, p.Scan(`{"a":"b"}`))
	assert.Equal(t, "b", p["a"])

	assert.Error(t, p.Scan(42))
	assert.Error(t, p.Scan([]byte(`[1,2]`)))
}

func TestRepositoryRefreshOverallLocksInstitution(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM institutions WHERE id = \$1 FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(`UPDATE institutions SET completeness = \( SELECT COALESCE\(ROUND\(AVG\(score\)\), 0\)::int FROM institution_sections WHERE institution_id = \$1 \)`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"completeness"}).AddRow(55))
	mock.ExpectCommit()

	overall, err := repo.RefreshOverall(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 55, overall)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryRefreshOverallMissingInstitution(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	_, err := repo.RefreshOverall(context.Background(), id)
	assert.ErrorIs(t, err, ErrInstitutionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
