// Package testutil builds, signs and serves release packages for tests.
package testutil

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/integrity"
)

// Signer signs package files the way the release tooling does, backed by a
// throwaway RSA key generated per test.
type Signer struct {
	key *rsa.PrivateKey
}

// NewSigner generates a fresh 2048-bit signing key.
func NewSigner(t *testing.T) *Signer {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return &Signer{key: key}
}

// Sign returns the base64-encoded PKCS #1 v1.5 signature of the file's
// SHA-256 digest.
func (s *Signer) Sign(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	digest := sha256.Sum256(data)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(sig)
}

// Verifier returns an integrity verifier that trusts this signer's key.
func (s *Signer) Verifier(t *testing.T) *integrity.RSAVerifier {
	t.Helper()
	verifier, err := integrity.NewRSAVerifier(&s.key.PublicKey)
	require.NoError(t, err)
	return verifier
}

// PublicKeyPEM returns the verifying key in PKIX PEM form.
func (s *Signer) PublicKeyPEM(t *testing.T) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
}

// WritePublicKey writes the verifying key PEM below dir and returns its path.
func (s *Signer) WritePublicKey(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "signing.pub")
	require.NoError(t, os.WriteFile(path, s.PublicKeyPEM(t), 0o644))
	return path
}
