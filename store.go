package sealbox

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

const chunksDirName = "chunks"

// chunkStore maps a Digest to an encrypted chunk file under
// <repo>/chunks/<xx>/<hex-digest>, where <xx> is the first two hex
// characters of the digest (a two-level fan-out capping per-directory
// entry counts, per spec.md §4.6).
type chunkStore struct {
	dir string // <repo>/chunks
}

func openChunkStore(repoDir string) *chunkStore {
	return &chunkStore{dir: filepath.Join(repoDir, chunksDirName)}
}

func (s *chunkStore) path(d Digest) string {
	return filepath.Join(s.dir, d.fanout(), d.String())
}

// has is an existence check used only as a performance hint before
// put, to avoid sealing a plaintext whose digest is already stored.
// It is not a correctness gate: put is idempotent on its own.
func (s *chunkStore) has(d Digest) bool {
	_, err := os.Stat(s.path(d))
	return err == nil
}

// put writes ciphertext under d, atomically and durably. If the
// target already exists, put is a no-op: this is the dedup path, and
// the write-once invariant means an existing chunk file is always
// already the right bytes for that digest.
//
// Atomicity/durability: write to a temp file in the target's parent
// directory, fsync the temp file, rename it into place, then fsync
// the parent directory so the rename itself survives a crash.
func (s *chunkStore) put(d Digest, ciphertext []byte) (err error) {
	defer Return(&err)

	target := s.path(d)
	if _, statErr := os.Stat(target); statErr == nil {
		log.Debugf("chunk store: %s already present, skipping write", d)
		return nil
	}

	dir := filepath.Dir(target)
	err = os.MkdirAll(dir, 0o755)
	Ck(err)

	tmp, err := ioutil.TempFile(dir, "tmp-*")
	Ck(err)
	tmpName := tmp.Name()
	// Always try to remove a leftover temp file; once renamed, the
	// name no longer exists and Remove is a harmless no-op error.
	defer os.Remove(tmpName)

	_, err = tmp.Write(ciphertext)
	if err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing chunk temp file")
	}
	err = tmp.Sync()
	if err != nil {
		tmp.Close()
		return errors.Wrap(err, "fsyncing chunk temp file")
	}
	err = tmp.Close()
	Ck(err)

	err = os.Rename(tmpName, target)
	if err != nil {
		// Another writer may have raced us to the same digest; since
		// chunk contents are a pure function of the digest, that's
		// fine as long as the target now exists.
		if _, statErr := os.Stat(target); statErr == nil {
			return nil
		}
		return errors.Wrapf(err, "renaming chunk temp file into place for %s", d)
	}

	err = fsyncDir(dir)
	Ck(err)

	return nil
}

// get reads the ciphertext stored under d.
func (s *chunkStore) get(d Digest) ([]byte, error) {
	buf, err := ioutil.ReadFile(s.path(d))
	if os.IsNotExist(err) {
		return nil, &ChunkMissingError{Digest: d}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading chunk %s", d)
	}
	return buf, nil
}

// walk enumerates every digest present in the store, by reconstructing
// it from the two-level directory layout. Used by ChunkCount, which
// tests asserting the dedup invariant rely on to count files on disk
// (spec.md §8, properties 3-4), grounded on the original's
// list_stored_chunks.
func (s *chunkStore) walk() ([]Digest, error) {
	var digests []Digest
	outer, err := ioutil.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "listing chunk store")
	}
	for _, sub := range outer {
		if !sub.IsDir() {
			continue
		}
		entries, err := ioutil.ReadDir(filepath.Join(s.dir, sub.Name()))
		if err != nil {
			return nil, errors.Wrap(err, "listing chunk store subdirectory")
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			d, err := ParseDigest(entry.Name())
			if err != nil {
				continue // not a chunk file; ignore
			}
			digests = append(digests, d)
		}
	}
	return digests, nil
}

// fsyncDir fsyncs a directory so that a preceding rename within it is
// durable across a crash, not just visible.
func fsyncDir(dir string) error {
	fh, err := os.Open(dir)
	if err != nil {
		return errors.Wrapf(err, "opening directory %s for fsync", dir)
	}
	defer fh.Close()
	return fh.Sync()
}
