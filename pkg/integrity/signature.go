package integrity

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
)

// RSAVerifier verifies package checksums and detached RSA signatures. The
// signature covers the SHA-256 digest of the package content and uses
// PKCS #1 v1.5 padding.
type RSAVerifier struct {
	key *rsa.PublicKey
}

var _ Verifier = (*RSAVerifier)(nil)

// NewRSAVerifier creates a verifier for the given trusted public key.
func NewRSAVerifier(key *rsa.PublicKey) (*RSAVerifier, error) {
	if key == nil {
		return nil, ErrNoPublicKey
	}
	return &RSAVerifier{key: key}, nil
}

// NewRSAVerifierFromFile loads the trusted public key from a PEM file.
func NewRSAVerifierFromFile(path string) (*RSAVerifier, error) {
	pemData, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading public key %s", path)
	}
	key, err := ParsePublicKey(pemData)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing public key %s", path)
	}
	return NewRSAVerifier(key)
}

// ParsePublicKey decodes a PEM-encoded RSA public key in either PKIX
// ("PUBLIC KEY") or PKCS #1 ("RSA PUBLIC KEY") form.
func ParsePublicKey(pemData []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(pemData)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrNotRSAKey)
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotRSAKey, err)
		}
		return key, nil
	default:
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotRSAKey, err)
		}
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrNotRSAKey, parsed)
		}
		return key, nil
	}
}

// VerifyChecksum implements Verifier.
func (v *RSAVerifier) VerifyChecksum(path, expected string) error {
	return VerifyChecksum(path, expected)
}

// VerifySignature implements Verifier. The signature is the base64-encoded
// PKCS #1 v1.5 signature of the file's SHA-256 digest.
func (v *RSAVerifier) VerifySignature(path, signature string) error {
	sig, err := base64.StdEncoding.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return errors.NewUpgradeErrorf(errors.KindIntegrity,
			fmt.Errorf("%w: %v", ErrMalformedSignature, err),
			"verifying signature of %s", filepath.Base(path))
	}

	digest, err := digestFile(path)
	if err != nil {
		return errors.NewUpgradeErrorf(errors.KindIntegrity, err, "verifying signature of %s", filepath.Base(path))
	}

	if err := rsa.VerifyPKCS1v15(v.key, crypto.SHA256, digest, sig); err != nil {
		return errors.NewUpgradeErrorf(errors.KindIntegrity,
			fmt.Errorf("%w: %v", ErrSignatureInvalid, err),
			"verifying signature of %s", filepath.Base(path))
	}
	return nil
}

func digestFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open for signature check")
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, errors.Wrap(err, "hashing")
	}
	return h.Sum(nil), nil
}
