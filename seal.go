package sealbox

import (
	"crypto/rand"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/box"
)

// nonceSize is the width nacl/box expects for a Seal/Open nonce.
const nonceSize = 24

// seal wraps plaintext in a sealed box addressed to recipient.
//
// Construction (spec.md §4.5): generate a fresh ephemeral sender
// keypair, derive a shared key via X25519 between the ephemeral
// secret and recipient, and encrypt with XSalsa20-Poly1305. The nonce
// is the plaintext's digest, truncated to nonceSize bytes -- this is
// safe because a fresh ephemeral keypair is generated on every call
// (see box.GenerateKey below), so the (ephemeral key, nonce) pair is
// unique with overwhelming probability even though the nonce repeats
// whenever the same plaintext is sealed twice. The ephemeral public
// key is prepended to the returned ciphertext so Open can recover it.
func seal(plaintext []byte, digest Digest, recipient PublicKey) ([]byte, error) {
	ephemeralPub, ephemeralSec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "sealing chunk: generating ephemeral keypair")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], digest[:nonceSize])

	recipientKey := [32]byte(recipient)
	out := make([]byte, 0, len(ephemeralPub)+len(plaintext)+box.Overhead)
	out = append(out, ephemeralPub[:]...)
	out = box.Seal(out, plaintext, &nonce, &recipientKey, ephemeralSec)
	return out, nil
}

// open unwraps a sealed box produced by seal, using the repository
// secret key. It recovers the ephemeral public key from the prefix,
// derives the shared key, and decrypts-and-verifies.
//
// open does not itself check the recovered plaintext's digest against
// expected -- that integrity check belongs to the restore pipeline
// (restore.go), which can distinguish a first-chunk key mismatch
// (CryptoFailureError) from later corruption (CorruptionError).
func open(ciphertext []byte, digest Digest, secret SecretKey) ([]byte, error) {
	if len(ciphertext) < 32+box.Overhead {
		return nil, errors.Errorf("sealed chunk %s is truncated: %d bytes", digest, len(ciphertext))
	}

	var ephemeralPub [32]byte
	copy(ephemeralPub[:], ciphertext[:32])
	body := ciphertext[32:]

	var nonce [nonceSize]byte
	copy(nonce[:], digest[:nonceSize])

	secretKey := [32]byte(secret)
	plaintext, ok := box.Open(nil, body, &nonce, &ephemeralPub, &secretKey)
	if !ok {
		return nil, errors.Errorf("authenticated decryption failed for chunk %s", digest)
	}
	return plaintext, nil
}
