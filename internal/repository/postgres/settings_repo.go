package postgres

import (
	"context"
	"strconv"
	"time"

	"github.com/mari/awards-voting/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *settingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetVotingSettings(ctx context.Context) (*domain.VotingSettings, error) {
	var rows []domain.Setting
	err := r.db.WithContext(ctx).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	settings := &domain.VotingSettings{
		VotingOpen:      values[domain.SettingVotingOpen] == "true",
		ResultsPublic:   values[domain.SettingResultsPublic] == "true",
		MaintenanceMode: values[domain.SettingMaintenanceMode] == "true",
	}
	if v := values[domain.SettingVotingStartAt]; v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			settings.VotingStartAt = &t
		}
	}
	if v := values[domain.SettingVotingEndAt]; v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			settings.VotingEndAt = &t
		}
	}
	if v := values[domain.SettingMaxVotesPerIP]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.MaxVotesPerIP = n
		}
	}

	return settings, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	setting := domain.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error
}
