package member

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberColumns = []string{
	"id", "username", "nickname", "password", "api_key", "profile_img_url", "created_at", "modified_at",
}

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	store := NewPostgresStore(db)
	return store, mock, db
}

func TestPostgresStore_FindByAPIKey(t *testing.T) {
	store, mock, db := newMockStore(t)
	defer db.Close()
	ctx := context.Background()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(memberColumns).
			AddRow(3, "user1", "User One", "", "key-1", "", now, now)
		mock.ExpectQuery(`SELECT (.+) FROM member WHERE api_key = \$1`).
			WithArgs("key-1").
			WillReturnRows(rows)

		m, err := store.FindByAPIKey(ctx, "key-1")
		require.NoError(t, err)
		assert.Equal(t, int64(3), m.ID)
		assert.Equal(t, "user1", m.Username)
		assert.Equal(t, "User One", m.Nickname)
		assert.Equal(t, "key-1", m.APIKey)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM member WHERE api_key = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(memberColumns))

		_, err := store.FindByAPIKey(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM member WHERE api_key = \$1`).
			WithArgs("key-1").
			WillReturnError(errors.New("connection reset"))

		_, err := store.FindByAPIKey(ctx, "key-1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "failed to query member")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_FindByUsername(t *testing.T) {
	store, mock, db := newMockStore(t)
	defer db.Close()
	now := time.Now()

	rows := sqlmock.NewRows(memberColumns).
		AddRow(9, "KAKAO__42", "kim", "", "key-9", "https://img/9.png", now, now)
	mock.ExpectQuery(`SELECT (.+) FROM member WHERE username = \$1`).
		WithArgs("KAKAO__42").
		WillReturnRows(rows)

	m, err := store.FindByUsername(context.Background(), "KAKAO__42")
	require.NoError(t, err)
	assert.Equal(t, int64(9), m.ID)
	assert.Equal(t, "https://img/9.png", m.ProfileImageURL)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Create(t *testing.T) {
	store, mock, db := newMockStore(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO member \(username, nickname, password, api_key, profile_img_url, created_at, modified_at\)`).
			WithArgs("KAKAO__1", "nick", "", "key", "img", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		m := &Member{Username: "KAKAO__1", Nickname: "nick", APIKey: "key", ProfileImageURL: "img"}
		require.NoError(t, store.Create(ctx, m))
		assert.Equal(t, int64(5), m.ID)
		assert.False(t, m.CreatedAt.IsZero())

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO member`).
			WillReturnError(&pq.Error{Code: uniqueViolation})

		err := store.Create(ctx, &Member{Username: "dup", APIKey: "dup"})
		assert.ErrorIs(t, err, ErrDuplicate)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_Update(t *testing.T) {
	store, mock, db := newMockStore(t)
	defer db.Close()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE member SET nickname = \$1, profile_img_url = \$2, modified_at = \$3 WHERE id = \$4`).
			WithArgs("new", "img", sqlmock.AnyArg(), int64(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, store.Update(ctx, &Member{ID: 5, Nickname: "new", ProfileImageURL: "img"}))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectExec(`UPDATE member`).
			WithArgs("new", "img", sqlmock.AnyArg(), int64(6)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := store.Update(ctx, &Member{ID: 6, Nickname: "new", ProfileImageURL: "img"})
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
