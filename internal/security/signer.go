package security

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/RRPsystem/wbctx/internal/wbctx"
)

var (
	ErrKeyImport        = errors.New("signing key material is malformed")
	ErrSigning          = errors.New("signing failed")
	ErrBadSignature     = errors.New("signature verification failed")
	ErrTokenInvalid     = errors.New("bearer token is invalid")
	ErrUnexpectedMethod = errors.New("unexpected token signing method")
)

// Signer holds the RSA keypair used for both the compact RS256 bearer
// token and the detached signature over a context record's canonical form.
type Signer struct {
	priv   *rsa.PrivateKey
	pub    *rsa.PublicKey
	pubPEM string
}

// NewSigner imports a PEM keypair. Deployment environments inject the PEM
// text with literal \n escape sequences; those are unescaped first.
func NewSigner(privatePEM, publicPEM string) (*Signer, error) {
	priv, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(UnescapePEM(privatePEM)))
	if err != nil {
		return nil, fmt.Errorf("%w: private key: %v", ErrKeyImport, err)
	}
	normalizedPub := UnescapePEM(publicPEM)
	pub, err := jwt.ParseRSAPublicKeyFromPEM([]byte(normalizedPub))
	if err != nil {
		return nil, fmt.Errorf("%w: public key: %v", ErrKeyImport, err)
	}
	return &Signer{priv: priv, pub: pub, pubPEM: normalizedPub}, nil
}

// PublicPEM returns the verification key as PEM text with real newlines,
// suitable for embedding in a context record's pub field.
func (s *Signer) PublicPEM() string {
	return s.pubPEM
}

// Sign produces a detached RSASSA-PKCS1-v1_5/SHA-256 signature over msg,
// encoded as unpadded URL-safe base64.
func (s *Signer) Sign(msg []byte) (string, error) {
	digest := sha256.Sum256(msg)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.priv, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return base64.RawURLEncoding.EncodeToString(sig), nil
}

// Verify checks a detached signature produced by Sign.
func (s *Signer) Verify(msg []byte, sig string) error {
	raw, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	digest := sha256.Sum256(msg)
	if err := rsa.VerifyPKCS1v15(s.pub, crypto.SHA256, digest[:], raw); err != nil {
		return ErrBadSignature
	}
	return nil
}

// SignToken mints the compact bearer token: an RS256 JWT whose claims are
// the signed context payload.
func (s *Signer) SignToken(claims *wbctx.SignedContext) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.priv)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return token, nil
}

// ParseToken verifies a compact bearer token with the public key and
// returns its claims.
func (s *Signer) ParseToken(raw string) (*wbctx.SignedContext, error) {
	claims := &wbctx.SignedContext{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedMethod, t.Header["alg"])
		}
		return s.pub, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// UnescapePEM converts literal \n escape sequences into newlines so PEM
// material can survive single-line environment variables.
func UnescapePEM(pem string) string {
	return strings.ReplaceAll(strings.TrimSpace(pem), `\n`, "\n")
}
