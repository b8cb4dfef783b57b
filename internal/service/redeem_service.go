package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/RRPsystem/wbctx/internal/config"
	"github.com/RRPsystem/wbctx/internal/domain"
	"github.com/RRPsystem/wbctx/internal/repository"
	"github.com/RRPsystem/wbctx/internal/wbctx"
)

const defaultFragment = "/mode/page"

var (
	// ErrRedeemNotFound maps to 404: the short id was never minted.
	ErrRedeemNotFound = errors.New("unknown context id")
	// ErrRedeemGone maps to 410: the context expired or was already used.
	ErrRedeemGone = errors.New("context expired or already used")
)

// RedeemService resolves shortlinks into builder redirects and serves the
// follow-up fetch-by-id call the builder app makes after landing.
type RedeemService struct {
	cfg    *config.Config
	repo   repository.ContextRepository
	cache  ContextCacheStore
	logger *slog.Logger
	now    func() time.Time
}

func NewRedeemService(cfg *config.Config, repo repository.ContextRepository, cache ContextCacheStore, logger *slog.Logger) *RedeemService {
	return &RedeemService{cfg: cfg, repo: repo, cache: cache, logger: logger, now: time.Now}
}

// Redeem validates the stored entry and, for single-use contexts,
// consumes it atomically before handing back the redirect URL. Fails
// closed on unknown, expired or already-used ids.
func (s *RedeemService) Redeem(ctx context.Context, id string, query url.Values, fragment string) (string, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContextNotFound) {
			return "", ErrRedeemNotFound
		}
		return "", err
	}
	now := s.now().UTC()
	if entry.Expired(now) {
		return "", ErrRedeemGone
	}
	if entry.Ephemeral {
		if err := s.repo.Consume(ctx, id, now); err != nil {
			if errors.Is(err, repository.ErrContextNotConsumable) {
				return "", ErrRedeemGone
			}
			return "", err
		}
		if err := s.cache.PutOnce(ctx, id, entry.CtxData, s.cfg.FetchGraceTTL); err != nil {
			// the store's grace window still covers the fetch
			s.logger.Warn("context cache unavailable, fetch will fall back to store", "ctx_id", id, "error", err)
		}
	}
	return s.buildRedirectURL(id, query, fragment), nil
}

// Fetch is the enforcement point for the builder app's fetch-by-id call.
// Ephemeral contexts are served exactly once from the grace cache;
// reusable contexts come from the store while unexpired.
func (s *RedeemService) Fetch(ctx context.Context, id string) (*wbctx.ContextRecord, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContextNotFound) {
			return nil, ErrRedeemNotFound
		}
		return nil, err
	}
	now := s.now().UTC()
	if entry.Expired(now) {
		return nil, ErrRedeemGone
	}
	if !entry.Ephemeral {
		return decodeRecord(entry.CtxData)
	}

	data, ok, err := s.cache.TakeOnce(ctx, id)
	if err != nil {
		s.logger.Warn("context cache unavailable, serving from store grace window", "ctx_id", id, "error", err)
		if s.withinGraceWindow(entry, now) {
			return decodeRecord(entry.CtxData)
		}
		return nil, ErrRedeemGone
	}
	if !ok {
		return nil, ErrRedeemGone
	}
	return decodeRecord(data)
}

func (s *RedeemService) withinGraceWindow(entry *domain.ContextEntry, now time.Time) bool {
	return entry.Used && entry.UsedAt != nil && now.Sub(*entry.UsedAt) <= s.cfg.FetchGraceTTL
}

func (s *RedeemService) buildRedirectURL(id string, query url.Values, fragment string) string {
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("ctx", id)
	q.Set("ctx_base", s.cfg.CtxFunctionBase())
	q.Set("ctx_apikey", s.cfg.SupabaseAnonKey)
	q.Set("edge_badge", "0")

	frag := strings.TrimPrefix(fragment, "#")
	if frag == "" {
		frag = defaultFragment
	}
	return s.cfg.BuilderAppURL + "/?" + q.Encode() + "#" + frag
}

func decodeRecord(data []byte) (*wbctx.ContextRecord, error) {
	var rec wbctx.ContextRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode context record: %w", err)
	}
	return &rec, nil
}
