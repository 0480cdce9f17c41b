package model

import (
	"time"
)

const (
	PostSortLatest = "latest"
	PostSortLikes  = "likes"
)

// Temperature bands used by the community filter.
const (
	TempBandAll  = "all"
	TempBandCold = "cold"
	TempBandMild = "mild"
	TempBandWarm = "warm"
	TempBandHot  = "hot"
)

type Post struct {
	ID          string    `db:"id" json:"id"`
	UserID      *string   `db:"user_id" json:"userId"`
	Image       string    `db:"image" json:"image"`
	Description string    `db:"description" json:"description"`
	Temp        int       `db:"temp" json:"temp"`
	Status      string    `db:"status" json:"status"`
	Age         int       `db:"age" json:"age"`
	Height      int       `db:"height" json:"height"`
	Weight      int       `db:"weight" json:"weight"`
	Gender      string    `db:"gender" json:"gender"`
	Likes       int       `db:"likes" json:"likes"`
	Dislikes    int       `db:"dislikes" json:"dislikes"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// PostFilter narrows a post listing. Nil bounds and an empty search are unconstrained.
type PostFilter struct {
	Search  string
	MinTemp *int
	MaxTemp *int
	Sort    string
}
