package sealbox

import (
	"crypto/rand"
	"encoding/hex"
	"io/ioutil"
	"path/filepath"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/box"
)

const pubKeyFilename = "pub_key"

// PublicKey and SecretKey are the two halves of a repository's
// Curve25519 keypair, used by Seal/Open (seal.go) as a sealed-box
// envelope: any holder of PublicKey can write new deduplicated
// chunks; only the holder of SecretKey can read them back.
type PublicKey [32]byte
type SecretKey [32]byte

// String renders a key as 64 lowercase hex characters, the printable
// form the CLI prints for the secret key at init and reads back at
// restore (spec.md §6).
func (k PublicKey) String() string { return hex.EncodeToString(k[:]) }
func (k SecretKey) String() string { return hex.EncodeToString(k[:]) }

// ParsePublicKey and ParseSecretKey decode the printable hex form.
func ParsePublicKey(s string) (k PublicKey, err error) {
	return k, decodeKey(s, k[:])
}

func ParseSecretKey(s string) (k SecretKey, err error) {
	return k, decodeKey(s, k[:])
}

func decodeKey(s string, dst []byte) error {
	if len(s) != len(dst)*2 {
		return errors.Errorf("malformed key %q: want %d hex chars, got %d", s, len(dst)*2, len(s))
	}
	n, err := hex.Decode(dst, []byte(s))
	if err != nil {
		return errors.Wrapf(err, "decoding key %q", s)
	}
	if n != len(dst) {
		return errors.Errorf("malformed key %q: decoded %d bytes, want %d", s, n, len(dst))
	}
	return nil
}

// generateKeypair produces a fresh Curve25519 keypair suitable for
// sealed-box operation, using crypto/rand via box.GenerateKey.
func generateKeypair() (PublicKey, SecretKey, error) {
	pub, sec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return PublicKey{}, SecretKey{}, errors.Wrap(err, "generating keypair")
	}
	return PublicKey(*pub), SecretKey(*sec), nil
}

// writePublicKey persists the repository public key inside dir,
// write-once via temp-file-then-rename. There is no in-repository
// storage of the secret key (spec.md §4.4): the caller is given
// SecretKey at init and is solely responsible for its custody.
func writePublicKey(dir string, pub PublicKey) error {
	path := filepath.Join(dir, pubKeyFilename)
	return renameio.WriteFile(path, []byte(pub.String()), 0o444)
}

// readPublicKey loads the repository public key from dir.
func readPublicKey(dir string) (PublicKey, error) {
	path := filepath.Join(dir, pubKeyFilename)
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return PublicKey{}, &RepoMalformedError{Dir: dir, Reason: errors.Wrap(err, "reading public key").Error()}
	}
	pub, err := ParsePublicKey(string(buf))
	if err != nil {
		return PublicKey{}, &RepoMalformedError{Dir: dir, Reason: errors.Wrap(err, "parsing public key").Error()}
	}
	return pub, nil
}
