package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Find(t *testing.T) {
	mock := newMock(t)
	repo := NewSessionRepository(mock)
	expires := time.Now().Add(time.Hour).UTC()
	data := map[string]string{"adminId": "a1", "adminRole": "admin"}

	mock.ExpectQuery(`SELECT id, data, expires_at FROM sessions WHERE id = \$1 AND expires_at > NOW\(\)`).
		WithArgs("sid").
		WillReturnRows(pgxmock.NewRows([]string{"id", "data", "expires_at"}).AddRow("sid", data, expires))

	rec, err := repo.Find(context.Background(), "sid")

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "a1", rec.Data["adminId"])
	assert.Equal(t, expires, rec.ExpiresAt)
}

func TestSessionRepository_Find_Expired(t *testing.T) {
	mock := newMock(t)
	repo := NewSessionRepository(mock)
	mock.ExpectQuery(`FROM sessions`).WithArgs("old").WillReturnError(pgx.ErrNoRows)

	rec, err := repo.Find(context.Background(), "old")

	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSessionRepository_SaveAndDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewSessionRepository(mock)
	rec := &SessionRecord{ID: "sid", Data: map[string]string{"adminId": "a1"}, ExpiresAt: time.Now().Add(time.Hour)}

	mock.ExpectExec(`INSERT INTO sessions \(id, data, expires_at\)`).
		WithArgs("sid", rec.Data, rec.ExpiresAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs("sid").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs("sid").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Save(context.Background(), rec))
	require.NoError(t, repo.Delete(context.Background(), "sid"))
	require.NoError(t, repo.Delete(context.Background(), "sid"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	mock := newMock(t)
	repo := NewSessionRepository(mock)
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at <= NOW\(\)`).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	n, err := repo.DeleteExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
