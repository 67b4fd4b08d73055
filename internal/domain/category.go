package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category and Nominee are reference data owned by the admin CRUD surface;
// the voting core only reads them.
type Category struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	DisplayOrder int       `json:"displayOrder" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"createdAt"`

	Nominees []Nominee `json:"nominees,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Category) TableName() string {
	return "categories"
}

type Nominee struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CategoryID uuid.UUID `json:"categoryId" gorm:"type:uuid;not null;index"`
	Name       string    `json:"name" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Nominee) TableName() string {
	return "nominees"
}
