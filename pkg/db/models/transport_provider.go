package models

import (
	"time"

	"github.com/google/uuid"
)

// TransportProvider is the business profile a transport user operates under.
type TransportProvider struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CompanyName string    `gorm:"column:company_name;not null"`
	Phone       *string   `gorm:"column:phone"`
	ServiceArea *string   `gorm:"column:service_area"`
	Vehicles    []Vehicle `gorm:"foreignKey:TransportID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
