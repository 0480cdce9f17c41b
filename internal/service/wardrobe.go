package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/repository"
)

const (
	msgLoginRequired        = "로그인이 필요합니다."
	msgWardrobeItemNotFound = "옷장 아이템을 찾을 수 없습니다."
	maxWardrobeFieldLength  = 50
)

type WardrobeInput struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Season   string `json:"season"`
	Image    string `json:"image"`
}

type WardrobeService struct {
	wardrobeRepository repository.WardrobeRepository
	images             *ImageService
}

func NewWardrobeService(wardrobeRepository repository.WardrobeRepository, images *ImageService) *WardrobeService {
	return &WardrobeService{
		wardrobeRepository: wardrobeRepository,
		images:             images,
	}
}

func (s *WardrobeService) Add(ctx context.Context, userID string, input WardrobeInput) (*model.WardrobeItem, error) {
	if userID == "" {
		return nil, model.NewUnauthorizedError(msgLoginRequired)
	}

	item := &model.WardrobeItem{
		UserID:   userID,
		Category: strings.TrimSpace(input.Category),
		Name:     strings.TrimSpace(input.Name),
		Color:    strings.TrimSpace(input.Color),
		Season:   strings.TrimSpace(input.Season),
	}

	if item.Category == "" || item.Name == "" || item.Color == "" || item.Season == "" {
		return nil, model.NewValidationError("종류, 이름, 색상, 계절을 모두 입력해주세요.")
	}
	if !slices.Contains(model.WardrobeCategories, item.Category) {
		return nil, model.NewValidationError("지원하지 않는 종류입니다.")
	}
	if !slices.Contains(model.WardrobeSeasons, item.Season) {
		return nil, model.NewValidationError("지원하지 않는 계절입니다.")
	}
	if utf8.RuneCountInString(item.Name) > maxWardrobeFieldLength || utf8.RuneCountInString(item.Color) > maxWardrobeFieldLength {
		return nil, model.NewValidationError("이름과 색상은 50자 이하로 입력해주세요.")
	}

	if image := strings.TrimSpace(input.Image); image != "" {
		ref, err := s.images.Store(ctx, "wardrobe", image)
		if err != nil {
			return nil, err
		}
		item.Image = ref
	}

	err := s.wardrobeRepository.Create(ctx, item)
	if err != nil {
		s.images.Delete(ctx, item.Image)
		return nil, model.NewStoreError(err)
	}

	return item, nil
}

func (s *WardrobeService) List(ctx context.Context, userID string) ([]*model.WardrobeItem, error) {
	if userID == "" {
		return nil, model.NewUnauthorizedError(msgLoginRequired)
	}

	items, err := s.wardrobeRepository.Items(ctx, userID)
	if err != nil {
		return nil, model.NewStoreError(err)
	}
	return items, nil
}

// Delete removes one of the user's items. Items owned by someone else are reported as not found.
func (s *WardrobeService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return model.NewUnauthorizedError(msgLoginRequired)
	}

	item, err := s.wardrobeRepository.ByID(ctx, userID, id)
	if errors.Is(err, repository.ErrWardrobeItemNotFound) {
		return model.NewNotFoundError(msgWardrobeItemNotFound)
	}
	if err != nil {
		return model.NewStoreError(err)
	}

	err = s.wardrobeRepository.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrWardrobeItemNotFound) {
		return model.NewNotFoundError(msgWardrobeItemNotFound)
	}
	if err != nil {
		return model.NewStoreError(err)
	}

	s.images.Delete(ctx, item.Image)
	slog.Info("wardrobe item deleted", "item_id", id, "user_id", userID)
	return nil
}
