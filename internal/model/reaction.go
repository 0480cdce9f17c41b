package model

import (
	"time"
)

const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

const (
	ReactionSaved     = "saved"
	ReactionCancelled = "cancelled"
	ReactionChanged   = "changed"
)

type Reaction struct {
	ID        string    `db:"id"`
	PostID    string    `db:"post_id"`
	VisitorID string    `db:"visitor_id"`
	Type      string    `db:"type"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ReactionResult reports the transition applied for one visitor on one post.
// State is the visitor's reaction after the transition, empty when none remains.
type ReactionResult struct {
	Outcome  string `json:"outcome"`
	State    string `json:"state"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
	Message  string `json:"message"`
}

func IsReactionType(t string) bool {
	return t == ReactionLike || t == ReactionDislike
}
