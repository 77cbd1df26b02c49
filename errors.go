package sealbox

import "fmt"

// Error kinds, per spec.md §7. Each is a concrete type satisfying
// error, inspectable via errors.As, following the teacher's
// *NotDbError / *ExistsError pattern (db/db.go, pit/server.go).

// RepoNotFoundError reports a missing repository root directory. A
// root that exists but lacks its public key or config is reported as
// RepoMalformedError instead.
type RepoNotFoundError struct {
	Dir string
}

func (e *RepoNotFoundError) Error() string {
	return fmt.Sprintf("repository not found: %s", e.Dir)
}

// RepoMalformedError reports a repository root that exists but whose
// contents (public key, config) could not be read or parsed.
type RepoMalformedError struct {
	Dir    string
	Reason string
}

func (e *RepoMalformedError) Error() string {
	return fmt.Sprintf("malformed repository at %s: %s", e.Dir, e.Reason)
}

// RepoExistsError reports that init was asked to create a repository
// where one (or a non-empty directory) already exists.
type RepoExistsError struct {
	Dir string
}

func (e *RepoExistsError) Error() string {
	return fmt.Sprintf("repository already exists: %s", e.Dir)
}

// NameExistsError reports that save's target name collides with an
// existing name; names are never silently overwritten.
type NameExistsError struct {
	Name string
}

func (e *NameExistsError) Error() string {
	return fmt.Sprintf("name already exists: %s", e.Name)
}

// NameNotFoundError reports a restore or size target absent from the
// repository.
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("name not found: %s", e.Name)
}

// NameMalformedError reports a name-index file whose size is not a
// multiple of DigestSize, or (with Size -1) a name containing
// characters outside the filename-safe set.
type NameMalformedError struct {
	Name string
	Size int64
}

func (e *NameMalformedError) Error() string {
	if e.Size < 0 {
		return fmt.Sprintf("malformed name %q: only letters, digits, '-', '_' and '.' are allowed", e.Name)
	}
	return fmt.Sprintf("malformed name index %q: size %d is not a multiple of %d", e.Name, e.Size, DigestSize)
}

// ChunkMissingError reports a digest referenced by a name index that
// is absent from the chunk store -- whether because of external
// deletion or corruption. Spec.md's Open Question (§9) fixes this as
// a fatal restore error.
type ChunkMissingError struct {
	Digest Digest
}

func (e *ChunkMissingError) Error() string {
	return fmt.Sprintf("chunk missing: %s", e.Digest)
}

// CorruptionError reports that a decrypted chunk payload's recomputed
// digest does not match the filename it was stored under, or that
// authenticated decryption failed outright for a key that otherwise
// opened prior chunks (sealed-box data corruption or bit-flip).
type CorruptionError struct {
	Digest Digest
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("corruption detected for chunk %s: %s", e.Digest, e.Reason)
}

// CryptoFailureError reports that the supplied secret key does not
// correspond to the repository public key -- detected as an open
// failure on the very first chunk of a restore.
type CryptoFailureError struct {
	Digest Digest
}

func (e *CryptoFailureError) Error() string {
	return fmt.Sprintf("secret key does not open chunk %s: wrong key for this repository", e.Digest)
}
