package service

import (
	"context"
	"testing"

	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWardrobeService(t *testing.T) {
	database := setupTestDB(t)
	owner := createTestUser(t, database, "owner@example.com")
	other := createTestUser(t, database, "other@example.com")
	store := newMemoryStorage()
	wardrobe := NewWardrobeService(repository.NewWardrobeRepository(database), NewImageService(store))
	ctx := context.Background()

	coat, err := wardrobe.Add(ctx, owner.ID, WardrobeInput{
		Category: "아우터",
		Name:     " 울 코트 ",
		Color:    "카멜",
		Season:   "겨울",
		Image:    testPNG,
	})
	require.NoError(t, err)
	assert.Equal(t, "울 코트", coat.Name)
	assert.Contains(t, coat.Image, "public/wardrobe/")
	assert.Equal(t, 1, store.len())

	_, err = wardrobe.Add(ctx, owner.ID, WardrobeInput{Category: "상의", Name: "셔츠", Color: "화이트", Season: "사계절"})
	require.NoError(t, err)

	items, err := wardrobe.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	otherItems, err := wardrobe.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, otherItems)

	err = wardrobe.Delete(ctx, other.ID, coat.ID)
	assertCode(t, err, model.CodeNotFound)

	require.NoError(t, wardrobe.Delete(ctx, owner.ID, coat.ID))
	assert.Equal(t, 0, store.len())

	err = wardrobe.Delete(ctx, owner.ID, coat.ID)
	assertCode(t, err, model.CodeNotFound)
}

func TestWardrobeService_AddValidation(t *testing.T) {
	database := setupTestDB(t)
	owner := createTestUser(t, database, "owner@example.com")
	wardrobe := NewWardrobeService(repository.NewWardrobeRepository(database), NewImageService(nil))
	ctx := context.Background()

	valid := WardrobeInput{Category: "상의", Name: "니트", Color: "네이비", Season: "겨울"}

	tests := []struct {
		name   string
		mutate func(in *WardrobeInput)
	}{
		{"missing name", func(in *WardrobeInput) { in.Name = "" }},
		{"unknown category", func(in *WardrobeInput) { in.Category = "모자" }},
		{"unknown season", func(in *WardrobeInput) { in.Season = "장마" }},
		{"bad image", func(in *WardrobeInput) { in.Image = "data:image/png;base64,!!" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := wardrobe.Add(ctx, owner.ID, in)
			assertCode(t, err, model.CodeValidation)
		})
	}

	_, err := wardrobe.Add(ctx, "", valid)
	assertCode(t, err, model.CodeUnauthorized)

	_, err = wardrobe.List(ctx, "")
	assertCode(t, err, model.CodeUnauthorized)
}
