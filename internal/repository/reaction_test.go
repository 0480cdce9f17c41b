package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/otion-app/otion/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepository_Transitions(t *testing.T) {
	database := setupTestDB(t)
	repo := NewReactionRepository(database)
	ctx := context.Background()
	post := createTestPost(t, database, 15, "", time.Now())

	tests := []struct {
		name     string
		input    string
		outcome  string
		state    string
		likes    int
		dislikes int
	}{
		{"like from none", model.ReactionLike, model.ReactionSaved, model.ReactionLike, 1, 0},
		{"like again cancels", model.ReactionLike, model.ReactionCancelled, "", 0, 0},
		{"dislike from none", model.ReactionDislike, model.ReactionSaved, model.ReactionDislike, 0, 1},
		{"switch to like", model.ReactionLike, model.ReactionChanged, model.ReactionLike, 1, 0},
		{"switch back to dislike", model.ReactionDislike, model.ReactionChanged, model.ReactionDislike, 0, 1},
		{"dislike again cancels", model.ReactionDislike, model.ReactionCancelled, "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.Apply(ctx, post.ID, "visitor-1", tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.Equal(t, tt.state, result.State)
			assert.Equal(t, tt.likes, result.Likes)
			assert.Equal(t, tt.dislikes, result.Dislikes)

			stored, err := repo.ByVisitor(ctx, post.ID, "visitor-1")
			if tt.state == "" {
				assert.ErrorIs(t, err, ErrReactionNotFound)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.state, stored.Type)
			}
		})
	}
}

func TestReactionRepository_VisitorsAreIndependent(t *testing.T) {
	database := setupTestDB(t)
	repo := NewReactionRepository(database)
	ctx := context.Background()
	post := createTestPost(t, database, 15, "", time.Now())

	_, err := repo.Apply(ctx, post.ID, "a", model.ReactionLike)
	require.NoError(t, err)
	_, err = repo.Apply(ctx, post.ID, "b", model.ReactionLike)
	require.NoError(t, err)
	result, err := repo.Apply(ctx, post.ID, "c", model.ReactionDislike)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Likes)
	assert.Equal(t, 1, result.Dislikes)
}

func TestReactionRepository_UnknownPost(t *testing.T) {
	database := setupTestDB(t)
	repo := NewReactionRepository(database)

	_, err := repo.Apply(context.Background(), "missing", "visitor", model.ReactionLike)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestReactionRepository_InvalidType(t *testing.T) {
	database := setupTestDB(t)
	repo := NewReactionRepository(database)
	post := createTestPost(t, database, 15, "", time.Now())

	_, err := repo.Apply(context.Background(), post.ID, "visitor", "love")
	assert.ErrorIs(t, err, ErrInvalidReaction)
}

func TestReactionRepository_ConcurrentVisitors(t *testing.T) {
	database := setupTestDB(t)
	repo := NewReactionRepository(database)
	ctx := context.Background()
	post := createTestPost(t, database, 15, "", time.Now())

	const visitors = 20
	var wg sync.WaitGroup
	errs := make(chan error, visitors)
	for i := range visitors {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reaction := model.ReactionLike
			if i%4 == 0 {
				reaction = model.ReactionDislike
			}
			_, err := repo.Apply(ctx, post.ID, fmt.Sprintf("visitor-%d", i), reaction)
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := NewPostRepository(database).ByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stored.Likes)
	assert.Equal(t, 5, stored.Dislikes)
}

func TestReactionRepository_RollbackOnCounterFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewReactionRepository(sqlx.NewDb(mockDB, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM posts WHERE id = $1`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM reactions WHERE post_id = $1 AND visitor_id = $2`)).
		WithArgs("p1", "v1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "visitor_id", "type", "created_at", "updated_at"}))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reactions`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET likes = likes + 1 WHERE id = $1`)).
		WithArgs("p1").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err = repo.Apply(context.Background(), "p1", "v1", model.ReactionLike)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to increment likes")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_RollbackOnSwitchFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewReactionRepository(sqlx.NewDb(mockDB, "sqlmock"))

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM posts WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM reactions WHERE post_id = $1 AND visitor_id = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "visitor_id", "type", "created_at", "updated_at"}).
			AddRow("r1", "p1", "v1", model.ReactionLike, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reactions SET type = $1, updated_at = $2 WHERE id = $3`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET likes = likes - 1, dislikes = dislikes + 1 WHERE id = $1`)).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err = repo.Apply(context.Background(), "p1", "v1", model.ReactionDislike)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func reactionColumns() []string {
	return []string{"id", "post_id", "visitor_id", "type", "created_at", "updated_at"}
}

func expectReactionLookup(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM posts WHERE id = $1`)).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM reactions WHERE post_id = $1 AND visitor_id = $2`)).
		WithArgs("p1", "v1").
		WillReturnRows(rows)
}

func TestReactionRepository_StaleCancelIsReevaluated(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewReactionRepository(sqlx.NewDb(mockDB, "sqlmock"))
	now := time.Now()

	// The like was already removed by a concurrent request: the delete matches nothing
	// and the counters must stay untouched.
	expectReactionLookup(mock, sqlmock.NewRows(reactionColumns()).AddRow("r1", "p1", "v1", model.ReactionLike, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reactions WHERE id = $1 AND type = $2`)).
		WithArgs("r1", model.ReactionLike).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	expectReactionLookup(mock, sqlmock.NewRows(reactionColumns()))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reactions`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET likes = likes + 1 WHERE id = $1`)).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes, dislikes FROM posts WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"likes", "dislikes"}).AddRow(1, 0))
	mock.ExpectCommit()

	result, err := repo.Apply(context.Background(), "p1", "v1", model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionSaved, result.Outcome)
	assert.Equal(t, 1, result.Likes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_StaleSwitchIsReevaluated(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewReactionRepository(sqlx.NewDb(mockDB, "sqlmock"))
	now := time.Now()

	expectReactionLookup(mock, sqlmock.NewRows(reactionColumns()).AddRow("r1", "p1", "v1", model.ReactionLike, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reactions SET type = $1, updated_at = $2 WHERE id = $3 AND type = $4`)).
		WithArgs(model.ReactionDislike, sqlmock.AnyArg(), "r1", model.ReactionLike).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// A concurrent request already switched it to dislike, so this one cancels.
	expectReactionLookup(mock, sqlmock.NewRows(reactionColumns()).AddRow("r1", "p1", "v1", model.ReactionDislike, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reactions WHERE id = $1 AND type = $2`)).
		WithArgs("r1", model.ReactionDislike).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET dislikes = dislikes - 1 WHERE id = $1`)).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes, dislikes FROM posts WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"likes", "dislikes"}).AddRow(0, 0))
	mock.ExpectCommit()

	result, err := repo.Apply(context.Background(), "p1", "v1", model.ReactionDislike)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionCancelled, result.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_DuplicateInsertIsReevaluated(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewReactionRepository(sqlx.NewDb(mockDB, "sqlmock"))
	now := time.Now()

	expectReactionLookup(mock, sqlmock.NewRows(reactionColumns()))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reactions`)).
		WillReturnError(errors.New("UNIQUE constraint failed: reactions.post_id, reactions.visitor_id"))
	mock.ExpectRollback()

	expectReactionLookup(mock, sqlmock.NewRows(reactionColumns()).AddRow("r1", "p1", "v1", model.ReactionLike, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reactions WHERE id = $1 AND type = $2`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE posts SET likes = likes - 1 WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT likes, dislikes FROM posts WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"likes", "dislikes"}).AddRow(0, 0))
	mock.ExpectCommit()

	result, err := repo.Apply(context.Background(), "p1", "v1", model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, model.ReactionCancelled, result.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_PersistentConflictGivesUp(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewReactionRepository(sqlx.NewDb(mockDB, "sqlmock"))
	now := time.Now()

	for range maxReactionAttempts {
		expectReactionLookup(mock, sqlmock.NewRows(reactionColumns()).AddRow("r1", "p1", "v1", model.ReactionLike, now, now))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reactions WHERE id = $1 AND type = $2`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()
	}

	_, err = repo.Apply(context.Background(), "p1", "v1", model.ReactionLike)
	assert.ErrorIs(t, err, errReactionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepository_LockClause(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	pg := &reactionRepository{db: sqlx.NewDb(mockDB, "pgx")}
	assert.Equal(t, " FOR UPDATE", pg.lockClause())

	lite := &reactionRepository{db: sqlx.NewDb(mockDB, "sqlite")}
	assert.Empty(t, lite.lockClause())
}

func TestReactionRepository_SameVisitorConcurrentToggles(t *testing.T) {
	database := setupTestDB(t)
	repo := NewReactionRepository(database)
	ctx := context.Background()
	post := createTestPost(t, database, 15, "", time.Now())

	_, err := repo.Apply(ctx, post.ID, "bystander", model.ReactionLike)
	require.NoError(t, err)

	const requests = 10
	var wg sync.WaitGroup
	for range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Apply(ctx, post.ID, "twitchy", model.ReactionLike)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An even number of toggles leaves only the bystander's like.
	stored, err := NewPostRepository(database).ByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Likes)
	assert.Equal(t, 0, stored.Dislikes)
}
