package integrity

import "fmt"

// Verification errors.
var (
	ErrHashMismatch         = fmt.Errorf("content hash does not match the manifest")
	ErrUnsupportedAlgorithm = fmt.Errorf("unsupported checksum algorithm")
	ErrMalformedChecksum    = fmt.Errorf("malformed checksum")
	ErrMalformedSignature   = fmt.Errorf("malformed signature")
	ErrSignatureInvalid     = fmt.Errorf("signature verification failed")
	ErrNoPublicKey          = fmt.Errorf("no trusted public key configured")
	ErrNotRSAKey            = fmt.Errorf("trusted key is not an RSA public key")
)
