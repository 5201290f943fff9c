package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// CatalogEntry is the canonical product definition farmers list against.
// Reference data, maintained by admin tooling.
type CatalogEntry struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"column:name;not null"`
	Category     string     `gorm:"column:category;not null"`
	StandardUnit enums.Unit `gorm:"column:standard_unit;type:text;not null"`
	Description  *string    `gorm:"column:description"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
