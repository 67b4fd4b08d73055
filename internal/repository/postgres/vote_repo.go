package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/mari/awards-voting/internal/domain"
	"gorm.io/gorm"
)

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) *voteRepository {
	return &voteRepository{db: db}
}

// CreateBatch commits the whole ballot or nothing. Inserts are plain
// INSERTs with no conflict clause: the unique index on
// (user_id, category_id) is the final arbiter under concurrent submissions,
// and a violation aborts the transaction with gorm.ErrDuplicatedKey.
func (r *voteRepository) CreateBatch(ctx context.Context, votes []*domain.Vote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, vote := range votes {
			if err := tx.Create(vote).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *voteRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Vote, error) {
	var votes []*domain.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("cast_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}
	return votes, nil
}

func (r *voteRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *voteRepository) CountByIP(ctx context.Context, ip string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("ip_address = ?", ip).
		Count(&count).Error
	return count, err
}
