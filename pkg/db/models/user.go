package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/farmlink-co/farmlink-backend/pkg/enums"
)

// User is the minimal identity record the marketplace keeps. Credentials
// live with the external identity provider; this row only anchors ownership.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string         `gorm:"column:email;not null;uniqueIndex"`
	FullName  string         `gorm:"column:full_name;not null"`
	Phone     *string        `gorm:"column:phone"`
	Role      enums.UserRole `gorm:"column:role;type:text;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
