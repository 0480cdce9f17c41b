package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/repository"
)

const (
	msgPostRequired = "이미지와 기온 정보는 필수입니다."
	msgPostNotFound = "게시물을 찾을 수 없습니다."
)

// Defaults applied to optional post fields.
const (
	defaultPostAge    = 25
	defaultPostHeight = 170
	defaultPostWeight = 65
	defaultPostGender = "미지정"
)

// CreatePostInput uses pointers so an omitted number can be told apart from zero.
type CreatePostInput struct {
	Image       string `json:"image"`
	Description string `json:"description"`
	Temp        *int   `json:"temp"`
	Status      string `json:"status"`
	Age         *int   `json:"age"`
	Height      *int   `json:"height"`
	Weight      *int   `json:"weight"`
	Gender      string `json:"gender"`
}

type PostQuery struct {
	Search  string
	MinTemp *int
	MaxTemp *int
	Sort    string
	Band    string
}

type PostService struct {
	postRepository repository.PostRepository
	images         *ImageService
}

func NewPostService(postRepository repository.PostRepository, images *ImageService) *PostService {
	return &PostService{
		postRepository: postRepository,
		images:         images,
	}
}

func (s *PostService) Create(ctx context.Context, userID string, input CreatePostInput) (*model.Post, error) {
	if userID == "" {
		return nil, model.NewUnauthorizedError(msgLoginRequired)
	}
	if strings.TrimSpace(input.Image) == "" || input.Temp == nil {
		return nil, model.NewValidationError(msgPostRequired)
	}

	age, err := positiveOr(input.Age, defaultPostAge, "나이")
	if err != nil {
		return nil, err
	}
	height, err := positiveOr(input.Height, defaultPostHeight, "키")
	if err != nil {
		return nil, err
	}
	weight, err := positiveOr(input.Weight, defaultPostWeight, "몸무게")
	if err != nil {
		return nil, err
	}

	image, err := s.images.Store(ctx, "posts", strings.TrimSpace(input.Image))
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:      &userID,
		Image:       image,
		Description: strings.TrimSpace(input.Description),
		Temp:        *input.Temp,
		Status:      stringOr(input.Status, defaultStatus),
		Age:         age,
		Height:      height,
		Weight:      weight,
		Gender:      stringOr(input.Gender, defaultPostGender),
	}

	err = s.postRepository.Create(ctx, post)
	if err != nil {
		s.images.Delete(ctx, image)
		return nil, model.NewStoreError(err)
	}

	slog.Info("post created", "post_id", post.ID, "user_id", userID)
	return post, nil
}

func (s *PostService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrPostNotFound) {
		return nil, model.NewNotFoundError(msgPostNotFound)
	}
	if err != nil {
		return nil, model.NewStoreError(err)
	}
	return post, nil
}

// List returns posts matching q. Explicit bounds win over a named band.
func (s *PostService) List(ctx context.Context, q PostQuery) ([]*model.Post, error) {
	filter := model.PostFilter{
		Search:  strings.TrimSpace(q.Search),
		MinTemp: q.MinTemp,
		MaxTemp: q.MaxTemp,
		Sort:    q.Sort,
	}

	if filter.MinTemp == nil && filter.MaxTemp == nil {
		lo, hi, err := TempBandBounds(q.Band)
		if err != nil {
			return nil, err
		}
		filter.MinTemp, filter.MaxTemp = lo, hi
	}

	if filter.MinTemp != nil && filter.MaxTemp != nil && *filter.MinTemp > *filter.MaxTemp {
		return nil, model.NewValidationError("최저 기온이 최고 기온보다 높을 수 없습니다.")
	}

	posts, err := s.postRepository.Posts(ctx, filter)
	if err != nil {
		return nil, model.NewStoreError(err)
	}
	return posts, nil
}

// TempBandBounds resolves a named temperature band to inclusive bounds.
// An empty band or "all" is unbounded.
func TempBandBounds(band string) (*int, *int, error) {
	switch strings.ToLower(strings.TrimSpace(band)) {
	case "", model.TempBandAll:
		return nil, nil, nil
	case model.TempBandCold:
		return nil, intPtr(9), nil
	case model.TempBandMild:
		return intPtr(10), intPtr(19), nil
	case model.TempBandWarm:
		return intPtr(20), intPtr(27), nil
	case model.TempBandHot:
		return intPtr(28), nil, nil
	}
	return nil, nil, model.NewValidationError("알 수 없는 기온 구간입니다.")
}

func positiveOr(v *int, fallback int, field string) (int, error) {
	if v == nil {
		return fallback, nil
	}
	if *v <= 0 {
		return 0, model.NewValidationError(field + " 값이 올바르지 않습니다.")
	}
	return *v, nil
}

func stringOr(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}

func intPtr(v int) *int {
	return &v
}
