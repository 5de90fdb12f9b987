package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mediahub-api/internal/models"
)

var institutionRowColumns = []string{"id", "name", "short_code", "type", "is_active", "created_at"}

func TestInstitutionListOrdersByName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	rows := sqlmock.NewRows(institutionRowColumns).
		AddRow("i1", "City Hospital", nil, "hospital", true, time.Now()).
		AddRow("i2", "Green Valley School", "GVS", "school", false, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM institutions ORDER BY name ASC")).WillReturnRows(rows)

	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "City Hospital", items[0].Name)
	assert.Nil(t, items[0].ShortCode)
	assert.Equal(t, "GVS", *items[1].ShortCode)
	assert.False(t, items[1].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM institutions WHERE id = $1")).
		WithArgs("i9").
		WillReturnRows(sqlmock.NewRows(institutionRowColumns))

	inst, err := repo.FindByID(context.Background(), "i9")
	assert.Nil(t, inst)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	mock.ExpectExec("INSERT INTO institutions").WillReturnResult(sqlmock.NewResult(1, 1))

	inst := &models.Institution{Name: "St. Xavier's College", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), inst))
	assert.NotEmpty(t, inst.ID)
	assert.False(t, inst.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	mock.ExpectExec("UPDATE institutions SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Institution{ID: "i9", Name: "Gone"})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstitutionDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInstitutionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM institutions WHERE id = $1")).
		WithArgs("i9").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "i9")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
