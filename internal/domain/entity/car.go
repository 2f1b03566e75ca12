package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Car is a vehicle offered by a supplier
type Car struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Image     string          `gorm:"type:varchar(255)" json:"image,omitempty"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Available bool            `gorm:"not null;default:true" json:"available"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Company User `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

func (Car) TableName() string {
	return "cars"
}

// Location is a pickup or drop-off point
type Location struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:varchar(255);not null" json:"name"`
}

func (Location) TableName() string {
	return "locations"
}
