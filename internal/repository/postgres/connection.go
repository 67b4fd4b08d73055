package postgres

import (
	"github.com/mari/awards-voting/internal/domain"
	"github.com/mari/awards-voting/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surfaces unique-index violations as gorm.ErrDuplicatedKey, which
		// the voting service maps to the already-voted outcome.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Credential{},
		&domain.Session{},
		&domain.Category{},
		&domain.Nominee{},
		&domain.Vote{},
		&domain.Setting{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:       NewUserRepository(db),
		Credential: NewCredentialRepository(db),
		Session:    NewSessionRepository(db),
		Category:   NewCategoryRepository(db),
		Vote:       NewVoteRepository(db),
		Settings:   NewSettingsRepository(db),
	}
}
