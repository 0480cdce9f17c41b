package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/otion-app/otion/internal/model"
)

var (
	ErrReactionNotFound = errors.New("reaction not found")
	ErrInvalidReaction  = errors.New("invalid reaction type")
)

type ReactionRepository interface {
	Apply(ctx context.Context, postID, visitorID, reactionType string) (*model.ReactionResult, error)
	ByVisitor(ctx context.Context, postID, visitorID string) (*model.Reaction, error)
}

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// errReactionConflict means another request changed the visitor's reaction
// between our read and our write; the transition is re-evaluated from scratch.
var errReactionConflict = errors.New("reaction changed concurrently")

const maxReactionAttempts = 3

// Apply runs one reaction transition for the visitor on the post.
// The reaction row and the post counters change in the same transaction,
// and counters only move after the reaction row write affected exactly one row.
func (r *reactionRepository) Apply(ctx context.Context, postID, visitorID, reactionType string) (*model.ReactionResult, error) {
	if !model.IsReactionType(reactionType) {
		return nil, ErrInvalidReaction
	}

	var err error
	for range maxReactionAttempts {
		var result *model.ReactionResult
		result, err = r.apply(ctx, postID, visitorID, reactionType)
		if !errors.Is(err, errReactionConflict) {
			return result, err
		}
	}
	return nil, err
}

func (r *reactionRepository) apply(ctx context.Context, postID, visitorID, reactionType string) (*model.ReactionResult, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists, `SELECT 1 FROM posts WHERE id = $1`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}

	var current *model.Reaction
	existing := &model.Reaction{}
	err = tx.GetContext(ctx, existing, `SELECT * FROM reactions WHERE post_id = $1 AND visitor_id = $2`+r.lockClause(), postID, visitorID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("failed to load reaction: %w", err)
	default:
		current = existing
	}

	now := time.Now().UTC()
	result := &model.ReactionResult{}

	switch {
	case current == nil:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO reactions (id, post_id, visitor_id, type, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New().String(), postID, visitorID, reactionType, now, now,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, errReactionConflict
			}
			return nil, fmt.Errorf("failed to insert reaction: %w", err)
		}
		col := counterColumn(reactionType)
		_, err = tx.ExecContext(ctx, `UPDATE posts SET `+col+` = `+col+` + 1 WHERE id = $1`, postID)
		if err != nil {
			return nil, fmt.Errorf("failed to increment %s: %w", col, err)
		}
		result.Outcome = model.ReactionSaved
		result.State = reactionType

	case current.Type == reactionType:
		res, err := tx.ExecContext(ctx, `DELETE FROM reactions WHERE id = $1 AND type = $2`, current.ID, current.Type)
		if err := singleRow(res, err, "delete reaction"); err != nil {
			return nil, err
		}
		col := counterColumn(reactionType)
		_, err = tx.ExecContext(ctx, `UPDATE posts SET `+col+` = `+col+` - 1 WHERE id = $1`, postID)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement %s: %w", col, err)
		}
		result.Outcome = model.ReactionCancelled
		result.State = ""

	default:
		res, err := tx.ExecContext(ctx,
			`UPDATE reactions SET type = $1, updated_at = $2 WHERE id = $3 AND type = $4`,
			reactionType, now, current.ID, current.Type,
		)
		if err := singleRow(res, err, "update reaction"); err != nil {
			return nil, err
		}
		from, to := counterColumn(current.Type), counterColumn(reactionType)
		_, err = tx.ExecContext(ctx, `UPDATE posts SET `+from+` = `+from+` - 1, `+to+` = `+to+` + 1 WHERE id = $1`, postID)
		if err != nil {
			return nil, fmt.Errorf("failed to move %s to %s: %w", from, to, err)
		}
		result.Outcome = model.ReactionChanged
		result.State = reactionType
	}

	err = tx.QueryRowxContext(ctx, `SELECT likes, dislikes FROM posts WHERE id = $1`, postID).Scan(&result.Likes, &result.Dislikes)
	if err != nil {
		return nil, fmt.Errorf("failed to read counters: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// lockClause locks the visitor's reaction row on PostgreSQL. SQLite has no
// row locks; its write transactions are serialized by _txlock=immediate.
func (r *reactionRepository) lockClause() string {
	if r.db.DriverName() == "pgx" {
		return " FOR UPDATE"
	}
	return ""
}

// singleRow turns a conditional write that matched nothing into errReactionConflict.
func singleRow(res sql.Result, err error, action string) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if n != 1 {
		return errReactionConflict
	}
	return nil
}

func (r *reactionRepository) ByVisitor(ctx context.Context, postID, visitorID string) (*model.Reaction, error) {
	reaction := &model.Reaction{}
	query := `SELECT * FROM reactions WHERE post_id = $1 AND visitor_id = $2`

	err := r.db.GetContext(ctx, reaction, query, postID, visitorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return reaction, nil
}

// counterColumn maps a validated reaction type to its posts column
func counterColumn(reactionType string) string {
	if reactionType == model.ReactionDislike {
		return "dislikes"
	}
	return "likes"
}
