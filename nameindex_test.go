package sealbox

import (
	"io/ioutil"
	"os"
	"testing"
)

func newTestNameIndex(t *testing.T) *nameIndex {
	t.Helper()
	dir, err := ioutil.TempDir("", "sealbox-names")
	tassert(t, err == nil, "TempDir: %v", err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return openNameIndex(dir)
}

func TestNameIndexWriteRead(t *testing.T) {
	n := newTestNameIndex(t)
	digests := []Digest{HashBytes([]byte("a")), HashBytes([]byte("b"))}

	tassert(t, n.write("stream1", digests) == nil, "write failed")
	got, err := n.read("stream1")
	tassert(t, err == nil, "read: %v", err)
	tassert(t, len(got) == len(digests), "digest count mismatch")
	for i := range digests {
		tassert(t, got[i] == digests[i], "digest %d mismatch", i)
	}
}

func TestNameIndexEmptyList(t *testing.T) {
	n := newTestNameIndex(t)
	tassert(t, n.write("empty", nil) == nil, "write failed")
	got, err := n.read("empty")
	tassert(t, err == nil, "read: %v", err)
	tassert(t, len(got) == 0, "expected empty digest list, got %d", len(got))
}

func TestNameIndexWriteOnce(t *testing.T) {
	n := newTestNameIndex(t)
	tassert(t, n.write("once", []Digest{HashBytes([]byte("a"))}) == nil, "first write failed")

	err := n.write("once", []Digest{HashBytes([]byte("b"))})
	tassert(t, err != nil, "expected error on second write")
	_, ok := err.(*NameExistsError)
	tassert(t, ok, "expected *NameExistsError, got %T", err)
}

func TestNameIndexNotFound(t *testing.T) {
	n := newTestNameIndex(t)
	_, err := n.read("nope")
	tassert(t, err != nil, "expected error reading missing name")
	_, ok := err.(*NameNotFoundError)
	tassert(t, ok, "expected *NameNotFoundError, got %T", err)
}

func TestNameIndexMalformedSize(t *testing.T) {
	n := newTestNameIndex(t)
	tassert(t, os.MkdirAll(n.dir, 0o755) == nil, "mkdir failed")
	tassert(t, ioutil.WriteFile(n.path("bad"), []byte("not a multiple of 32 bytes"), 0o644) == nil, "write failed")

	_, err := n.read("bad")
	tassert(t, err != nil, "expected error for malformed name file")
	_, ok := err.(*NameMalformedError)
	tassert(t, ok, "expected *NameMalformedError, got %T", err)
}

func TestNameIndexList(t *testing.T) {
	n := newTestNameIndex(t)
	tassert(t, n.write("a", nil) == nil, "write a failed")
	tassert(t, n.write("b", nil) == nil, "write b failed")

	names, err := n.list()
	tassert(t, err == nil, "list: %v", err)
	tassert(t, len(names) == 2, "expected 2 names, got %d", len(names))
}
