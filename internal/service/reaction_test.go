package service

import (
	"context"
	"testing"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionService_React(t *testing.T) {
	database := setupTestDB(t)
	user := createTestUser(t, database, "poster@example.com")
	posts := NewPostService(repository.NewPostRepository(database), NewImageService(nil))
	reactions := NewReactionService(repository.NewReactionRepository(database))
	ctx := context.Background()

	post, err := posts.Create(ctx, user.ID, CreatePostInput{Image: testPNG, Temp: intPtr(15)})
	require.NoError(t, err)

	steps := []struct {
		reaction string
		outcome  string
		state    string
		likes    int
		dislikes int
		message  string
	}{
		{model.ReactionLike, model.ReactionSaved, model.ReactionLike, 1, 0, "반응이 저장되었습니다."},
		{model.ReactionDislike, model.ReactionChanged, model.ReactionDislike, 0, 1, "반응이 변경되었습니다."},
		{model.ReactionDislike, model.ReactionCancelled, "", 0, 0, "반응이 취소되었습니다."},
	}
	for _, step := range steps {
		result, err := reactions.React(ctx, post.ID, "visitor-1", step.reaction)
		require.NoError(t, err)
		assert.Equal(t, step.outcome, result.Outcome)
		assert.Equal(t, step.state, result.State)
		assert.Equal(t, step.likes, result.Likes)
		assert.Equal(t, step.dislikes, result.Dislikes)
		assert.Equal(t, step.message, result.Message)
	}
}

func TestReactionService_ReactValidation(t *testing.T) {
	database := setupTestDB(t)
	reactions := NewReactionService(repository.NewReactionRepository(database))
	ctx := context.Background()

	_, err := reactions.React(ctx, "post", "visitor", "love")
	assertCode(t, err, model.CodeValidation)

	_, err = reactions.React(ctx, "post", " ", model.ReactionLike)
	assertCode(t, err, model.CodeValidation)

	_, err = reactions.React(ctx, "missing", "visitor", model.ReactionLike)
	assertCode(t, err, model.CodeNotFound)
}
