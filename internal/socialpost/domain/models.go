package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusScheduled Status = "SCHEDULED"
	StatusPublished Status = "PUBLISHED"
	StatusFailed    Status = "FAILED"
)

// Editable reports whether content and platforms may still change.
func (s Status) Editable() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusFailed:
		return true
	}
	return false
}

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
	PlatformTwitter   = "twitter"
	PlatformLinkedIn  = "linkedin"
)

var Platforms = []string{PlatformFacebook, PlatformInstagram, PlatformTwitter, PlatformLinkedIn}

func ValidPlatform(p string) bool {
	for _, v := range Platforms {
		if v == p {
			return true
		}
	}
	return false
}

type Post struct {
	ID          snowflake.ID                          `gorm:"primaryKey" json:"id"`
	ClinicID    snowflake.ID                          `gorm:"not null;index" json:"clinic_id"`
	Content     string                                `gorm:"type:text;not null" json:"content"`
	MediaURLs   datatypes.JSONSlice[string]           `gorm:"column:media_urls" json:"media_urls"`
	Platforms   datatypes.JSONSlice[string]           `gorm:"not null" json:"platforms"`
	Status      Status                                `gorm:"type:text;not null;index" json:"status"`
	ScheduledAt *time.Time                            `gorm:"index" json:"scheduled_at,omitempty"`
	PublishedAt *time.Time                            `json:"published_at,omitempty"`
	ExternalIDs datatypes.JSONType[map[string]string] `gorm:"column:external_ids" json:"external_ids"`
	LastError   string                                `json:"last_error,omitempty"`
	CreatedBy   *snowflake.ID                         `json:"created_by,omitempty"`
	CreatedAt   time.Time                             `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                             `gorm:"not null" json:"updated_at"`
}

func (Post) TableName() string { return "social_posts" }
