package models

import (
	"time"
)

type Comment struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Cid      string   `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	CentreID string   `gorm:"not null;index;size:80" json:"centre_id"`
	Centre   Centre   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Username string   `gorm:"size:50;not null" json:"username"`
	Content  string   `gorm:"size:500;not null" json:"content"`
	ParentID *uint    `gorm:"index" json:"parent_id"` // Nullable for top-level comments
	Parent   *Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	// Level/Subject scope the comment to one offering; both nil means a
	// general comment. Replies always carry the parent's values.
	Level     *string   `gorm:"size:10;index:idx_comments_context" json:"level"`
	Subject   *string   `gorm:"size:30;index:idx_comments_context" json:"subject"`
	Hidden    bool      `gorm:"default:false;index" json:"hidden"`
	CreatedAt time.Time `json:"created_at"`

	// Filled at query time for top-level rows, not a column.
	ReplyCount int `gorm:"-" json:"reply_count"`
}

// TopLevel reports whether the comment can itself be replied to.
func (c *Comment) TopLevel() bool {
	return c.ParentID == nil
}
