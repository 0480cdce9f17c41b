package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/otion-app/otion/internal/db"
	"github.com/otion-app/otion/internal/model"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens a migrated SQLite database in a temp dir.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn := filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"

	database, err := db.Init("sqlite", conn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return database
}

func createTestUser(t *testing.T, database *sqlx.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Email: email, PasswordHash: "salt:hash"}
	require.NoError(t, NewUserRepository(database).Create(context.Background(), user))
	return user
}

func createTestPost(t *testing.T, database *sqlx.DB, temp int, description string, createdAt time.Time) *model.Post {
	t.Helper()
	post := &model.Post{
		Image:       "data:image/png;base64,AA==",
		Description: description,
		Temp:        temp,
		Status:      "맑음",
		Age:         25,
		Height:      170,
		Weight:      65,
		Gender:      "미지정",
		CreatedAt:   createdAt.UTC(),
	}
	require.NoError(t, NewPostRepository(database).Create(context.Background(), post))
	return post
}
