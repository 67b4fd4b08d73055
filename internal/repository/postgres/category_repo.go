package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/domain"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *categoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := r.db.WithContext(ctx).
		Preload("Nominees").
		Order("display_order ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) GetNomineeByID(ctx context.Context, id uuid.UUID) (*domain.Nominee, error) {
	var nominee domain.Nominee
	err := r.db.WithContext(ctx).First(&nominee, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &nominee, nil
}
