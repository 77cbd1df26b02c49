package sealbox

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestInitCreatesRepository(t *testing.T) {
	dir, err := ioutil.TempDir("", "sealbox-init")
	tassert(t, err == nil, "TempDir: %v", err)
	defer os.RemoveAll(dir)

	repo, secret, err := Init(dir)
	tassert(t, err == nil, "Init: %v", err)
	tassert(t, repo.Dir == dir, "Dir mismatch")
	tassert(t, secret != (SecretKey{}), "expected non-zero secret key")
	tassert(t, repo.PubKey != (PublicKey{}), "expected non-zero public key")

	_, err = os.Stat(filepath.Join(dir, "pub_key"))
	tassert(t, err == nil, "expected pub_key file: %v", err)
	_, err = os.Stat(filepath.Join(dir, configFilename))
	tassert(t, err == nil, "expected config.json file: %v", err)
}

func TestInitRejectsNonEmptyDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "sealbox-init")
	tassert(t, err == nil, "TempDir: %v", err)
	defer os.RemoveAll(dir)

	tassert(t, ioutil.WriteFile(filepath.Join(dir, "stray"), []byte("x"), 0o644) == nil, "write failed")

	_, _, err = Init(dir)
	tassert(t, err != nil, "expected Init to fail on non-empty dir")
	_, ok := err.(*RepoExistsError)
	tassert(t, ok, "expected *RepoExistsError, got %T", err)
}

func TestInitAcceptsMissingDir(t *testing.T) {
	parent, err := ioutil.TempDir("", "sealbox-init")
	tassert(t, err == nil, "TempDir: %v", err)
	defer os.RemoveAll(parent)

	dir := filepath.Join(parent, "repo")
	repo, _, err := Init(dir)
	tassert(t, err == nil, "Init: %v", err)
	tassert(t, repo != nil, "expected non-nil repo")
}

func TestOpenExistingRepository(t *testing.T) {
	dir, err := ioutil.TempDir("", "sealbox-open")
	tassert(t, err == nil, "TempDir: %v", err)
	defer os.RemoveAll(dir)

	created, _, err := Init(dir)
	tassert(t, err == nil, "Init: %v", err)

	opened, err := Open(dir)
	tassert(t, err == nil, "Open: %v", err)
	tassert(t, opened.PubKey == created.PubKey, "public key mismatch after Open")
}

func TestOpenMissingRepository(t *testing.T) {
	dir, err := ioutil.TempDir("", "sealbox-open")
	tassert(t, err == nil, "TempDir: %v", err)
	os.RemoveAll(dir)

	_, err = Open(dir)
	tassert(t, err != nil, "expected error opening missing repository")
	_, ok := err.(*RepoNotFoundError)
	tassert(t, ok, "expected *RepoNotFoundError, got %T", err)
}

func TestOpenMalformedRepositoryMissingConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "sealbox-open")
	tassert(t, err == nil, "TempDir: %v", err)
	defer os.RemoveAll(dir)

	_, err = Open(dir)
	tassert(t, err != nil, "expected error opening dir with no config.json")
	_, ok := err.(*RepoMalformedError)
	tassert(t, ok, "expected *RepoMalformedError, got %T", err)
}

func TestOpenMalformedRepositoryMissingPubKey(t *testing.T) {
	dir, err := ioutil.TempDir("", "sealbox-open")
	tassert(t, err == nil, "TempDir: %v", err)
	defer os.RemoveAll(dir)

	tassert(t, writeConfig(dir, defaultRepoConfig()) == nil, "writeConfig failed")

	_, err = Open(dir)
	tassert(t, err != nil, "expected error opening dir with no pub_key")
	_, ok := err.(*RepoMalformedError)
	tassert(t, ok, "expected *RepoMalformedError, got %T", err)
}

func TestValidateNameRejectsEmpty(t *testing.T) {
	err := validateName("")
	tassert(t, err != nil, "expected error for empty name")
	_, ok := err.(*NameNotFoundError)
	tassert(t, ok, "expected *NameNotFoundError, got %T", err)
}

func TestValidateNameRejectsPathSeparators(t *testing.T) {
	err := validateName("../etc/passwd")
	tassert(t, err != nil, "expected error for path-like name")
	_, ok := err.(*NameMalformedError)
	tassert(t, ok, "expected *NameMalformedError, got %T", err)
}

func TestValidateNameAcceptsSafeCharset(t *testing.T) {
	tassert(t, validateName("backup-2026.08.02_full") == nil, "expected safe name to validate")
}

func TestListNamesEmptyRepository(t *testing.T) {
	repo, _ := newTestRepo(t)
	names, err := repo.ListNames()
	tassert(t, err == nil, "ListNames: %v", err)
	tassert(t, len(names) == 0, "expected no names, got %d", len(names))
}

func TestChunkCountEmptyRepository(t *testing.T) {
	repo, _ := newTestRepo(t)
	n, err := repo.ChunkCount()
	tassert(t, err == nil, "ChunkCount: %v", err)
	tassert(t, n == 0, "expected 0 chunks, got %d", n)
}
