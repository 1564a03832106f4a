package datastore

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Madmax-op/FoodShare/models"
	"github.com/Madmax-op/FoodShare/session"
)

const sessionID = "4b0c9a47-2f1d-4f8e-8f38-0d5f1a6f2c11"

var repoNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*SessionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	repo := NewSessionRepository(db)
	repo.now = func() time.Time { return repoNow }
	return repo, mock
}

var sessionColumns = []string{"id", "token", "user_id", "role", "user_profile", "created_at", "expires_at"}

func TestSessionRepositoryGet(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM web_sessions")).
		WithArgs(sessionID, repoNow).
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(
			sessionID, "tok", int64(12), "NGO",
			[]byte(`{"id":12,"name":"Helping Hands","email":"hh@example.org","role":"NGO"}`),
			repoNow.Add(-time.Hour), repoNow.Add(time.Hour),
		))

	s, err := repo.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	require.NotNil(t, s.UserID)
	assert.Equal(t, int64(12), *s.UserID)
	require.NotNil(t, s.CurrentUser)
	assert.Equal(t, "Helping Hands", s.CurrentUser.Name)
}

func TestSessionRepositoryGetAnonymous(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM web_sessions")).
		WithArgs(sessionID, repoNow).
		WillReturnRows(sqlmock.NewRows(sessionColumns).AddRow(
			sessionID, "", nil, "", nil, repoNow, repoNow.Add(time.Hour),
		))

	s, err := repo.Get(context.Background(), sessionID)
	require.NoError(t, err)
	assert.False(t, s.Authenticated())
	assert.Nil(t, s.UserID)
	assert.Nil(t, s.CurrentUser)
}

func TestSessionRepositoryGetMissing(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM web_sessions")).
		WithArgs(sessionID, repoNow).
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	_, err := repo.Get(context.Background(), sessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	// Malformed IDs never reach the database.
	_, err = repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionRepositorySave(t *testing.T) {
	repo, mock := newRepo(t)
	uid := int64(3)
	s := &models.Session{
		ID:        sessionID,
		Token:     "tok",
		UserID:    &uid,
		Role:      "DONOR",
		CreatedAt: repoNow,
		ExpiresAt: repoNow.Add(time.Hour),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO web_sessions")).
		WithArgs(sessionID, "tok", int64(3), "DONOR", sqlmock.AnyArg(), repoNow, repoNow.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), s))
}

func TestSessionRepositorySaveRejectsBadID(t *testing.T) {
	repo, _ := newRepo(t)
	assert.Error(t, repo.Save(context.Background(), &models.Session{ID: "x"}))
}

func TestSessionRepositoryDeleteAndPurge(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM web_sessions WHERE id = $1")).
		WithArgs(sessionID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM web_sessions WHERE expires_at <= $1")).
		WithArgs(repoNow).
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.Delete(context.Background(), sessionID))
	n, err := repo.PurgeExpired(context.Background(), repoNow)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestSessionRepositoryEnsureSchema(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS web_sessions")).
		WillReturnResult(driver.ResultNoRows)
	require.NoError(t, repo.EnsureSchema(context.Background()))
}
