package sealbox

import (
	"io/ioutil"
	"os"
	"testing"
)

// tassert mirrors the teacher's boolean-condition test helper.
func tassert(t *testing.T, cond bool, txt string, args ...interface{}) {
	t.Helper()
	if !cond {
		t.Fatalf(txt, args...)
	}
}

// newTestRepo creates a fresh repository in a temp directory and
// returns it along with its secret key, removing the directory when
// the test completes.
func newTestRepo(t *testing.T) (*Repository, SecretKey) {
	t.Helper()
	dir, err := ioutil.TempDir("", "sealbox")
	tassert(t, err == nil, "TempDir: %v", err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	repo, secret, err := Init(dir)
	tassert(t, err == nil, "Init: %v", err)
	return repo, secret
}
