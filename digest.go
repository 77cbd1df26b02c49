package sealbox

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"
)

// DigestSize is the width, in bytes, of a Digest: 256 bits.
const DigestSize = sha256.Size

// Digest is a fixed-width cryptographic hash of a chunk's plaintext.
// It doubles as the chunk's storage key and, truncated, as the
// sealing nonce (see seal.go).
type Digest [DigestSize]byte

// HashBytes computes the Digest of buf.
func HashBytes(buf []byte) Digest {
	return Digest(sha256.Sum256(buf))
}

// String renders the digest as 64 lowercase hex characters.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a 64-character hex string into a Digest.
func ParseDigest(s string) (d Digest, err error) {
	if len(s) != DigestSize*2 {
		return d, errors.Errorf("malformed digest %q: want %d hex chars, got %d", s, DigestSize*2, len(s))
	}
	n, err := hex.Decode(d[:], []byte(s))
	if err != nil {
		return d, errors.Wrapf(err, "decoding digest %q", s)
	}
	if n != DigestSize {
		return d, errors.Errorf("malformed digest %q: decoded %d bytes, want %d", s, n, DigestSize)
	}
	return d, nil
}

// fanout returns the first two hex characters of the digest, used as
// the chunk store's subdirectory name to cap directory entry counts.
func (d Digest) fanout() string {
	return hex.EncodeToString(d[:1])
}
