package sealbox

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// Restore writes the stream stored under name to w, in order. The
// first fatal error aborts the operation; w may have been partially
// written when Restore returns a non-nil error, and callers must
// treat that partial output as invalid (spec.md §7).
func (r *Repository) Restore(name string, secret SecretKey, w io.Writer) error {
	digests, err := r.names.read(name)
	if err != nil {
		return err
	}

	for i, d := range digests {
		ciphertext, err := r.chunks.get(d)
		if err != nil {
			return err
		}

		plaintext, err := open(ciphertext, d, secret)
		if err != nil {
			if i == 0 {
				return &CryptoFailureError{Digest: d}
			}
			return &CorruptionError{Digest: d, Reason: err.Error()}
		}

		got := HashBytes(plaintext)
		if got != d {
			return &CorruptionError{Digest: d, Reason: "decrypted payload digest does not match filename"}
		}

		if _, err := w.Write(plaintext); err != nil {
			return err
		}
	}

	log.Debugf("sealbox: restored %q as %d chunks", name, len(digests))
	return nil
}
