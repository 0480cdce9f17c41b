package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/otion-app/otion/internal/model"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ByID(ctx context.Context, id string) (*model.Post, error)
	Posts(ctx context.Context, filter model.PostFilter) ([]*model.Post, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO posts (id, user_id, image, description, temp, status, age, height, weight, gender, likes, dislikes, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0, $11)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.Image,
		post.Description,
		post.Temp,
		post.Status,
		post.Age,
		post.Height,
		post.Weight,
		post.Gender,
		post.CreatedAt,
	)
	if err != nil {
		return err
	}

	post.Likes = 0
	post.Dislikes = 0
	return nil
}

func (r *postRepository) ByID(ctx context.Context, id string) (*model.Post, error) {
	post := &model.Post{}
	query := `SELECT * FROM posts WHERE id = $1`

	err := r.db.GetContext(ctx, post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return post, nil
}

// Posts returns every post matching the filter. There is no pagination.
func (r *postRepository) Posts(ctx context.Context, filter model.PostFilter) ([]*model.Post, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		p := arg("%" + escapeLike(search) + "%")
		where = append(where, `(LOWER(description) LIKE LOWER(`+p+`) ESCAPE '\' OR LOWER(status) LIKE LOWER(`+p+`) ESCAPE '\')`)
	}
	if filter.MinTemp != nil {
		where = append(where, "temp >= "+arg(*filter.MinTemp))
	}
	if filter.MaxTemp != nil {
		where = append(where, "temp <= "+arg(*filter.MaxTemp))
	}

	// Validate and build ORDER BY clause
	var orderBy string
	switch filter.Sort {
	case model.PostSortLikes:
		orderBy = " ORDER BY likes DESC, created_at DESC"
	default: // PostSortLatest or empty
		orderBy = " ORDER BY created_at DESC"
	}

	query := `SELECT * FROM posts`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += orderBy

	posts := []*model.Post{}
	err := r.db.SelectContext(ctx, &posts, query, args...)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
