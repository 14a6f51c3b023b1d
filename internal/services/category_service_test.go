package services

import (
	"context"
	"errors"
	"testing"

	"auction-house/internal/aucterrors"
	"auction-house/internal/models"
	"auction-house/internal/repository"
)

func TestDeleteCategoryDetachesListings(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	categories := NewCategoryService(repo)
	listings := NewListingService(repo)
	ctx := context.Background()

	creator := createTestUser(t, db, "creator")

	category, err := categories.CreateCategory(ctx, "Books")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	listing, err := listings.CreateListing(ctx, creator.ID, &models.CreateListingRequest{
		Title:       "Novel",
		Description: "Hardcover",
		StartingBid: "5.00",
		CategoryID:  &category.ID,
	})
	if err != nil {
		t.Fatalf("CreateListing failed: %v", err)
	}

	if err := categories.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	// The listing survives with its category reference cleared
	var survivor models.Listing
	if err := db.First(&survivor, "id = ?", listing.ID).Error; err != nil {
		t.Fatalf("listing was deleted along with its category: %v", err)
	}
	if survivor.CategoryID != nil {
		t.Errorf("expected category reference cleared, got %v", *survivor.CategoryID)
	}
}

func TestCreateCategoryValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repository.NewRepository(db))
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, "  "); !errors.Is(err, aucterrors.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}

	if _, err := svc.CreateCategory(ctx, "Toys"); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, "Toys"); !errors.Is(err, aucterrors.ErrConflict) {
		t.Errorf("expected ErrConflict for duplicate name, got %v", err)
	}
}

func TestDeleteMissingCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(repository.NewRepository(db))

	if err := svc.DeleteCategory(context.Background(), 424242); !errors.Is(err, aucterrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
