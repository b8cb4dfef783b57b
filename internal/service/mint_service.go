package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RRPsystem/wbctx/internal/config"
	"github.com/RRPsystem/wbctx/internal/domain"
	"github.com/RRPsystem/wbctx/internal/repository"
	"github.com/RRPsystem/wbctx/internal/security"
	"github.com/RRPsystem/wbctx/internal/wbctx"
)

const maxShortIDAttempts = 5

var (
	ErrValidation       = errors.New("invalid mint request")
	ErrShortIDExhausted = errors.New("could not allocate a unique context id")
)

// MintService builds, signs and persists authorization contexts.
type MintService struct {
	cfg    *config.Config
	signer *security.Signer
	repo   repository.ContextRepository
	now    func() time.Time
}

type MintResult struct {
	CtxID     string               `json:"ctx_id"`
	Shortlink string               `json:"shortlink"`
	Ctx       *wbctx.ContextRecord `json:"ctx"`
	ExpiresAt time.Time            `json:"expires_at"`
}

func NewMintService(cfg *config.Config, signer *security.Signer, repo repository.ContextRepository) *MintService {
	return &MintService{cfg: cfg, signer: signer, repo: repo, now: time.Now}
}

func (s *MintService) Mint(ctx context.Context, req *wbctx.MintRequest) (*MintResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	ttl := req.TTLMinutes
	if ttl <= 0 {
		ttl = s.cfg.DefaultTTLMinutes
	}
	if ttl > s.cfg.MaxTTLMinutes {
		ttl = s.cfg.MaxTTLMinutes
	}

	now := s.now().UTC()
	expiresAt := now.Add(time.Duration(ttl) * time.Minute).Truncate(time.Second)

	payload := &wbctx.SignedContext{
		BrandID:  req.BrandID,
		PageID:   optional(req.PageID),
		NewsSlug: optional(req.NewsSlug),
		Slug:     optional(req.Slug),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := s.signer.SignToken(payload)
	if err != nil {
		return nil, err
	}

	rec := &wbctx.ContextRecord{
		API:       s.cfg.CtxFunctionBase(),
		Token:     token,
		APIKey:    s.cfg.SupabaseAnonKey,
		BrandID:   req.BrandID,
		PageID:    optional(req.PageID),
		NewsSlug:  optional(req.NewsSlug),
		Slug:      optional(req.Slug),
		Exp:       expiresAt.Unix(),
		Ephemeral: req.IsEphemeral(),
	}
	sig, err := s.signer.Sign(wbctx.CanonicalV1(rec))
	if err != nil {
		return nil, err
	}
	rec.Sig = sig
	rec.Pub = s.signer.PublicPEM()

	for attempt := 0; attempt < maxShortIDAttempts; attempt++ {
		id, err := security.NewShortID()
		if err != nil {
			return nil, err
		}
		rec.ID = id
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		entry := &domain.ContextEntry{
			ID:        id,
			BrandID:   req.BrandID,
			CtxData:   data,
			ExpiresAt: expiresAt,
			Ephemeral: rec.Ephemeral,
		}
		err = s.repo.Create(ctx, entry)
		if errors.Is(err, repository.ErrDuplicateContextID) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &MintResult{
			CtxID:     id,
			Shortlink: s.cfg.ShortlinkDomain + "/s/" + id,
			Ctx:       rec,
			ExpiresAt: expiresAt,
		}, nil
	}
	return nil, ErrShortIDExhausted
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
