package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/RRPsystem/wbctx/internal/config"
	"github.com/RRPsystem/wbctx/internal/domain"
	"github.com/RRPsystem/wbctx/internal/security"
	"github.com/RRPsystem/wbctx/internal/testkeys"
)

func newConfigForTest() *config.Config {
	return &config.Config{
		Env:               "test",
		SupabaseURL:       "https://example.supabase.co",
		SupabaseAnonKey:   "anon-key",
		ShortlinkDomain:   "https://wblink.app",
		BuilderAppURL:     "https://builder.example.com",
		DefaultTTLMinutes: 15,
		MaxTTLMinutes:     1440,
		FetchGraceTTL:     time.Minute,
	}
}

func newSignerForTest(t *testing.T) *security.Signer {
	t.Helper()
	signer, err := security.NewSigner(testkeys.PrivatePEM, testkeys.PublicPEM)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return signer
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubContextRepository struct {
	createFn        func(ctx context.Context, entry *domain.ContextEntry) error
	findByIDFn      func(ctx context.Context, id string) (*domain.ContextEntry, error)
	consumeFn       func(ctx context.Context, id string, now time.Time) error
	deleteExpiredFn func(ctx context.Context, before time.Time) (int64, error)
}

func (s *stubContextRepository) Create(ctx context.Context, entry *domain.ContextEntry) error {
	if s.createFn == nil {
		return errors.New("not implemented")
	}
	return s.createFn(ctx, entry)
}

func (s *stubContextRepository) FindByID(ctx context.Context, id string) (*domain.ContextEntry, error) {
	if s.findByIDFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.findByIDFn(ctx, id)
}

func (s *stubContextRepository) Consume(ctx context.Context, id string, now time.Time) error {
	if s.consumeFn == nil {
		return errors.New("not implemented")
	}
	return s.consumeFn(ctx, id, now)
}

func (s *stubContextRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if s.deleteExpiredFn == nil {
		return 0, errors.New("not implemented")
	}
	return s.deleteExpiredFn(ctx, before)
}
