package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/otion-app/otion/internal/model"
)

var (
	ErrWardrobeItemNotFound = errors.New("wardrobe item not found")
)

type WardrobeRepository interface {
	Create(ctx context.Context, item *model.WardrobeItem) error
	ByID(ctx context.Context, userID, id string) (*model.WardrobeItem, error)
	Items(ctx context.Context, userID string) ([]*model.WardrobeItem, error)
	Delete(ctx context.Context, userID, id string) error
}

type wardrobeRepository struct {
	db *sqlx.DB
}

func NewWardrobeRepository(db *sqlx.DB) WardrobeRepository {
	return &wardrobeRepository{db: db}
}

func (r *wardrobeRepository) Create(ctx context.Context, item *model.WardrobeItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO wardrobe_items (id, user_id, category, name, color, season, image, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.Category,
		item.Name,
		item.Color,
		item.Season,
		item.Image,
		item.CreatedAt,
	)

	return err
}

func (r *wardrobeRepository) ByID(ctx context.Context, userID, id string) (*model.WardrobeItem, error) {
	item := &model.WardrobeItem{}
	query := `SELECT * FROM wardrobe_items WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, item, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWardrobeItemNotFound
	}
	if err != nil {
		return nil, err
	}

	return item, nil
}

func (r *wardrobeRepository) Items(ctx context.Context, userID string) ([]*model.WardrobeItem, error) {
	items := []*model.WardrobeItem{}
	query := `SELECT * FROM wardrobe_items WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &items, query, userID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *wardrobeRepository) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM wardrobe_items WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrWardrobeItemNotFound
	}

	return nil
}
