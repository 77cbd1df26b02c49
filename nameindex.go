package sealbox

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	. "github.com/stevegt/goadapt"
)

const namesDirName = "names"

// nameIndex persists, under <repo>/names/<name>, the ordered list of
// chunk digests that reconstitute one stored stream. The on-disk
// format is a sequence of 32-byte big-endian digest records
// concatenated with no framing (spec.md §6): file size must be a
// multiple of DigestSize.
type nameIndex struct {
	dir string // <repo>/names
}

func openNameIndex(repoDir string) *nameIndex {
	return &nameIndex{dir: filepath.Join(repoDir, namesDirName)}
}

func (n *nameIndex) path(name string) string {
	return filepath.Join(n.dir, name)
}

func (n *nameIndex) exists(name string) bool {
	_, err := os.Stat(n.path(name))
	return err == nil
}

// write persists digests under name, atomically and exactly once.
// Preexisting names are never overwritten (spec.md §4.8): the caller
// is expected to have already checked exists, but write re-checks
// immediately before the rename to narrow the race window. The check
// and the rename are not one atomic step, so a concurrent writer of
// the same name can still be overwritten.
func (n *nameIndex) write(name string, digests []Digest) (err error) {
	defer Return(&err)

	if n.exists(name) {
		return &NameExistsError{Name: name}
	}

	err = os.MkdirAll(n.dir, 0o755)
	Ck(err)

	tmp, err := ioutil.TempFile(n.dir, "tmp-*")
	Ck(err)
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	buf := make([]byte, 0, len(digests)*DigestSize)
	for _, d := range digests {
		buf = append(buf, d[:]...)
	}

	_, err = tmp.Write(buf)
	if err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing name index temp file")
	}
	err = tmp.Sync()
	if err != nil {
		tmp.Close()
		return errors.Wrap(err, "fsyncing name index temp file")
	}
	err = tmp.Close()
	Ck(err)

	target := n.path(name)
	if n.exists(name) {
		// Another writer raced us between the exists check above and
		// here; the name is write-once, so refuse rather than clobber.
		return &NameExistsError{Name: name}
	}
	err = os.Rename(tmpName, target)
	Ck(err)

	err = fsyncDir(n.dir)
	Ck(err)

	return nil
}

// read loads the full ordered digest list for name.
func (n *nameIndex) read(name string) ([]Digest, error) {
	path := n.path(name)
	buf, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &NameNotFoundError{Name: name}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading name index %q", name)
	}
	if len(buf)%DigestSize != 0 {
		return nil, &NameMalformedError{Name: name, Size: int64(len(buf))}
	}

	digests := make([]Digest, 0, len(buf)/DigestSize)
	for off := 0; off < len(buf); off += DigestSize {
		var d Digest
		copy(d[:], buf[off:off+DigestSize])
		digests = append(digests, d)
	}
	return digests, nil
}

// list enumerates every name currently stored -- the supplemented
// `list` verb, grounded on the original's list_names.
func (n *nameIndex) list() ([]string, error) {
	entries, err := ioutil.ReadDir(n.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "listing names")
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
