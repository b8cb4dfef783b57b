package domain

import "time"

// ContextEntry is the persisted form of a minted authorization context,
// keyed by its 8-character short id.
type ContextEntry struct {
	ID        string     `gorm:"primaryKey;size:8" json:"id"`
	BrandID   string     `gorm:"size:64;index;not null" json:"brand_id"`
	CtxData   []byte     `gorm:"type:bytes;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`
	Used      bool       `gorm:"not null;default:false;index" json:"used"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	Ephemeral bool       `gorm:"not null;default:true" json:"ephemeral"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Expired reports whether the entry is logically invalid at the given
// instant, regardless of the used flag.
func (e *ContextEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
