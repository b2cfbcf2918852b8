package models

import (
	"time"
)

// Contact types for a centre. Unknown is valid: some listings only
// carry a number with no hint of whether it is a mobile or a landline.
const (
	ContactWhatsApp = "whatsapp"
	ContactCall     = "call"
	ContactUnknown  = "unknown"
)

type Centre struct {
	ID            string     `gorm:"primaryKey;size:80" json:"id"` // slug derived from name
	Name          string     `gorm:"not null" json:"name"`
	Address       string     `json:"address"`
	PostalCode    string     `gorm:"size:10" json:"postal_code"`
	ContactType   string     `gorm:"size:20;default:'unknown'" json:"contact_type"`
	ContactNumber string     `gorm:"size:30" json:"contact_number"`
	WebsiteURL    string     `json:"website_url"`
	Blurb         string     `gorm:"type:text" json:"blurb"` // markdown, rendered on detail page
	Offerings     []Offering `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"offerings"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Offering is one (level, subject) class a centre teaches.
// Reference data, read-only after seeding.
type Offering struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CentreID string `gorm:"not null;index;size:80" json:"centre_id"`
	Level    string `gorm:"size:10;not null" json:"level"`
	Subject  string `gorm:"size:30;not null" json:"subject"`
}
