package model

import (
	"time"
)

var WardrobeCategories = []string{"상의", "하의", "아우터", "신발", "액세서리"}

var WardrobeSeasons = []string{"사계절", "봄가을", "여름", "겨울"}

type WardrobeItem struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	Category  string    `db:"category" json:"category"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	Season    string    `db:"season" json:"season"`
	Image     string    `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
