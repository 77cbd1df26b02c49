package sealbox

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	log "github.com/sirupsen/logrus"
)

// Repository is a handle on one backup-store directory: the public
// key, the chunk store, and the set of names. A Repository handle
// exclusively owns its root directory for the duration of a Save;
// concurrent Restores are safe (spec.md §3, §5). sealbox does not
// itself enforce single-writer exclusion -- that is left to the
// operator, e.g. via an external lockfile.
type Repository struct {
	Dir    string
	PubKey PublicKey
	cfg    repoConfig
	chunks *chunkStore
	names  *nameIndex
}

// nameRE restricts names to the filename-safe subset spec.md §6
// requires: letters, digits, '-', '_', '.'.
var nameRE = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func validateName(name string) error {
	if name == "" {
		return &NameNotFoundError{Name: name}
	}
	if !nameRE.MatchString(name) {
		return &NameMalformedError{Name: name, Size: -1}
	}
	return nil
}

// Init creates a new repository at dir, generating a fresh keypair.
// The public key is persisted inside the repository; the secret key
// is returned for the caller's out-of-band custody and is never
// written to disk.
func Init(dir string) (repo *Repository, secret SecretKey, err error) {
	if entries, statErr := ioutil.ReadDir(dir); statErr == nil {
		if len(entries) > 0 {
			return nil, secret, &RepoExistsError{Dir: dir}
		}
	} else if !os.IsNotExist(statErr) {
		return nil, secret, statErr
	}

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, secret, err
	}

	pub, sec, err := generateKeypair()
	if err != nil {
		return nil, secret, err
	}

	cfg := defaultRepoConfig()
	if err = writeConfig(dir, cfg); err != nil {
		return nil, secret, err
	}
	if err = writePublicKey(dir, pub); err != nil {
		return nil, secret, err
	}
	for _, sub := range []string{chunksDirName, namesDirName} {
		if err = os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, secret, err
		}
	}

	log.Debugf("sealbox: initialized repository at %s", dir)

	repo = &Repository{
		Dir:    dir,
		PubKey: pub,
		cfg:    cfg,
		chunks: openChunkStore(dir),
		names:  openNameIndex(dir),
	}
	return repo, sec, nil
}

// Open loads an existing repository at dir. Open does not require (or
// accept) the secret key -- Save and list-style read-only operations
// need only the public key; Restore takes the secret key as a
// separate argument (spec.md §4.4, §6).
func Open(dir string) (*Repository, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, &RepoNotFoundError{Dir: dir}
	}

	cfg, err := readConfig(dir)
	if err != nil {
		return nil, err
	}
	pub, err := readPublicKey(dir)
	if err != nil {
		return nil, err
	}

	return &Repository{
		Dir:    dir,
		PubKey: pub,
		cfg:    cfg,
		chunks: openChunkStore(dir),
		names:  openNameIndex(dir),
	}, nil
}

// ListNames returns every name currently stored, read-only and safe
// under concurrent access (supplemented `list` verb; see SPEC_FULL.md).
func (r *Repository) ListNames() ([]string, error) {
	return r.names.list()
}

// ChunkCount returns the number of distinct chunks currently in the
// store -- used by tests asserting the dedup invariant by counting
// chunk files on disk.
func (r *Repository) ChunkCount() (int, error) {
	digests, err := r.chunks.walk()
	if err != nil {
		return 0, err
	}
	return len(digests), nil
}
