package service

import (
	"context"
	"errors"
	"strings"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/observability"
	"github.com/otion-app/otion/internal/repository"
)

var reactionMessages = map[string]string{
	model.ReactionSaved:     "반응이 저장되었습니다.",
	model.ReactionCancelled: "반응이 취소되었습니다.",
	model.ReactionChanged:   "반응이 변경되었습니다.",
}

type ReactionService struct {
	reactionRepository repository.ReactionRepository
}

func NewReactionService(reactionRepository repository.ReactionRepository) *ReactionService {
	return &ReactionService{reactionRepository: reactionRepository}
}

// React toggles the visitor's like or dislike on a post.
// Reacting with the current type cancels it; the other type switches it.
func (s *ReactionService) React(ctx context.Context, postID, visitorID, reactionType string) (*model.ReactionResult, error) {
	if !model.IsReactionType(reactionType) {
		return nil, model.NewValidationError("반응 종류가 올바르지 않습니다.")
	}
	if strings.TrimSpace(visitorID) == "" {
		return nil, model.NewValidationError("방문자 정보를 확인할 수 없습니다.")
	}
	if strings.TrimSpace(postID) == "" {
		return nil, model.NewNotFoundError(msgPostNotFound)
	}

	result, err := s.reactionRepository.Apply(ctx, postID, visitorID, reactionType)
	if errors.Is(err, repository.ErrPostNotFound) {
		return nil, model.NewNotFoundError(msgPostNotFound)
	}
	if err != nil {
		return nil, model.NewStoreError(err)
	}

	result.Message = reactionMessages[result.Outcome]
	observability.ReactionOutcomesTotal.WithLabelValues(result.Outcome).Inc()
	return result, nil
}
