package security

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RRPsystem/wbctx/internal/testkeys"
	"github.com/RRPsystem/wbctx/internal/wbctx"
)

func newSignerForTest(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testkeys.PrivatePEM, testkeys.PublicPEM)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return s
}

func escapePEM(pem string) string {
	return strings.ReplaceAll(pem, "\n", `\n`)
}

func TestNewSignerEscapedPEM(t *testing.T) {
	s, err := NewSigner(escapePEM(testkeys.PrivatePEM), escapePEM(testkeys.PublicPEM))
	if err != nil {
		t.Fatalf("new signer from escaped PEM: %v", err)
	}
	if !strings.Contains(s.PublicPEM(), "\n") {
		t.Fatal("expected PublicPEM to carry real newlines")
	}
}

func TestNewSignerMalformedKeys(t *testing.T) {
	if _, err := NewSigner("not a key", testkeys.PublicPEM); !errors.Is(err, ErrKeyImport) {
		t.Fatalf("expected ErrKeyImport for bad private key, got %v", err)
	}
	if _, err := NewSigner(testkeys.PrivatePEM, "not a key"); !errors.Is(err, ErrKeyImport) {
		t.Fatalf("expected ErrKeyImport for bad public key, got %v", err)
	}
}

func TestDetachedSignatureRoundTrip(t *testing.T) {
	s := newSignerForTest(t)
	msg := []byte(`{"brand_id":"b1","exp":1700000300}`)

	sig, err := s.Sign(msg)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if strings.ContainsAny(sig, "+/=") {
		t.Fatalf("signature must be unpadded URL-safe base64, got %q", sig)
	}
	if err := s.Verify(msg, sig); err != nil {
		t.Fatalf("verify: %v", err)
	}

	mutated := append([]byte(nil), msg...)
	mutated[0] ^= 0x01
	if err := s.Verify(mutated, sig); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for mutated message, got %v", err)
	}
	if err := s.Verify(msg, "%%%not-base64%%%"); !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature for garbage signature, got %v", err)
	}
}

func TestBearerTokenRoundTrip(t *testing.T) {
	s := newSignerForTest(t)
	pageID := "p1"
	slug := "home"
	claims := &wbctx.SignedContext{
		BrandID: "b1",
		PageID:  &pageID,
		Slug:    &slug,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(5 * time.Minute)),
		},
	}

	token, err := s.SignToken(claims)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact three-part token, got %d parts", len(parts))
	}

	parsed, err := s.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parsed.BrandID != "b1" || parsed.PageID == nil || *parsed.PageID != "p1" {
		t.Fatalf("unexpected claims: %+v", parsed)
	}

	// flipping a payload byte must break verification
	tampered := parts[0] + "." + parts[1][:len(parts[1])-2] + "xx." + parts[2]
	if _, err := s.ParseToken(tampered); err == nil {
		t.Fatal("expected tampered token to fail verification")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	s := newSignerForTest(t)
	claims := &wbctx.SignedContext{
		BrandID: "b1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := s.SignToken(claims)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := s.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestSignatureEncodingRoundTrip(t *testing.T) {
	// empty input and every length mod 3
	for _, n := range []int{0, 1, 2, 3, 4, 5, 31, 256} {
		buf := make([]byte, n)
		if _, err := rand.Read(buf); err != nil {
			t.Fatalf("rand: %v", err)
		}
		enc := base64.RawURLEncoding.EncodeToString(buf)
		dec, err := base64.RawURLEncoding.DecodeString(enc)
		if err != nil {
			t.Fatalf("decode len=%d: %v", n, err)
		}
		if !bytes.Equal(buf, dec) {
			t.Fatalf("round trip mismatch at len=%d", n)
		}
	}
}

func FuzzParseTokenRobustness(f *testing.F) {
	s, err := NewSigner(testkeys.PrivatePEM, testkeys.PublicPEM)
	if err != nil {
		f.Fatal(err)
	}
	valid, _ := s.SignToken(&wbctx.SignedContext{
		BrandID: "b1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	f.Add(valid)
	f.Add("")
	f.Add("not-a-token")
	f.Add("a.b.c")
	f.Add(strings.Repeat("x", 8192))

	f.Fuzz(func(t *testing.T, raw string) {
		if len(raw) > 16384 {
			raw = raw[:16384]
		}
		claims, err := s.ParseToken(raw)
		if err == nil {
			if claims == nil {
				t.Fatal("expected non-nil claims on successful parse")
			}
			if claims.BrandID == "" {
				t.Fatal("expected non-empty brand on successful parse")
			}
		}
	})
}
