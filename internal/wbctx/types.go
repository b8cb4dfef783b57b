package wbctx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TypePage = "page"
	TypeNews = "news"
)

var (
	ErrBrandIDRequired  = errors.New("brand_id is required")
	ErrTypeRequired     = errors.New("type must be \"page\" or \"news\"")
	ErrPageTargetNeeded = errors.New("page contexts require page_id and slug")
	ErrNewsTargetNeeded = errors.New("news contexts require news_slug")
)

// MintRequest is the inbound body of a mint call.
type MintRequest struct {
	BrandID    string `json:"brand_id"`
	Type       string `json:"type"`
	PageID     string `json:"page_id,omitempty"`
	Slug       string `json:"slug,omitempty"`
	NewsSlug   string `json:"news_slug,omitempty"`
	TTLMinutes int    `json:"ttl_minutes,omitempty"`
	Ephemeral  *bool  `json:"ephemeral,omitempty"`
}

// Validate checks the presence rules without touching storage.
func (r *MintRequest) Validate() error {
	if r.BrandID == "" {
		return ErrBrandIDRequired
	}
	switch r.Type {
	case TypePage:
		if r.PageID == "" || r.Slug == "" {
			return ErrPageTargetNeeded
		}
	case TypeNews:
		if r.NewsSlug == "" {
			return ErrNewsTargetNeeded
		}
	default:
		return ErrTypeRequired
	}
	return nil
}

// IsEphemeral applies the default: contexts are single-use unless the
// caller opts out.
func (r *MintRequest) IsEphemeral() bool {
	if r.Ephemeral == nil {
		return true
	}
	return *r.Ephemeral
}

// SignedContext is the claim set embedded in the compact bearer token.
// Immutable once signed.
type SignedContext struct {
	BrandID  string  `json:"brand_id"`
	PageID   *string `json:"page_id"`
	NewsSlug *string `json:"news_slug"`
	Slug     *string `json:"slug"`
	jwt.RegisteredClaims
}

// ContextRecord is the full signed record handed to the builder app.
// Sig is a detached signature over the canonical form; Pub carries the
// verification key material so the consumer needs no extra lookup.
type ContextRecord struct {
	ID        string  `json:"id"`
	API       string  `json:"api"`
	Token     string  `json:"token"`
	APIKey    string  `json:"apikey"`
	BrandID   string  `json:"brand_id"`
	PageID    *string `json:"page_id"`
	NewsSlug  *string `json:"news_slug"`
	Slug      *string `json:"slug"`
	Exp       int64   `json:"exp"`
	Ephemeral bool    `json:"ephemeral"`
	Sig       string  `json:"sig,omitempty"`
	Pub       string  `json:"pub,omitempty"`
}

// ExpiresAt returns the record expiry as wall-clock time.
func (c *ContextRecord) ExpiresAt() time.Time {
	return time.Unix(c.Exp, 0).UTC()
}
