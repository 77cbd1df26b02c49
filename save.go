package sealbox

import (
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
	"golang.org/x/sync/errgroup"
)

// sealWorkers bounds how many chunks may be concurrently sealed and
// written. Sealing is CPU-bound (X25519 + XSalsa20-Poly1305) and
// storing is I/O-bound; both are independent per chunk, so this is
// purely a throughput knob (spec.md §5) -- a single-threaded
// implementation (sealWorkers = 1) would be equally correct.
const sealWorkers = 4

// SaveResult reports what a Save call did.
type SaveResult struct {
	ChunkCount int
	ByteCount  int64
}

// Save reads all of rd, splits it into content-defined chunks, seals
// and stores each one not already present, and persists the ordered
// digest list under name. name must not already exist (spec.md §4.8).
//
// Sealing and storing run on a bounded worker pool for throughput, but
// the digest sequence appended to the name index is always in input
// order, regardless of completion order: each digest is recorded as
// the chunker produces it, before the chunk is handed to a worker, so
// the name index never depends on when sealing finishes (spec.md §5, §9).
func (r *Repository) Save(name string, rd io.Reader) (result SaveResult, err error) {
	defer Return(&err)

	if err = validateName(name); err != nil {
		return result, err
	}
	if r.names.exists(name) {
		return result, &NameExistsError{Name: name}
	}

	chunker, err := Chunker{MinSize: r.cfg.MinSize, MaxSize: r.cfg.MaxSize}.Init()
	Ck(err)
	chunker.Start(rd)

	type indexed struct {
		seq   int
		chunk Chunk
	}
	type sealedResult struct {
		seq  int
		size int64
		err  error
	}

	work := make(chan indexed, sealWorkers)
	results := make(chan sealedResult, sealWorkers)

	var group errgroup.Group
	for i := 0; i < sealWorkers; i++ {
		group.Go(func() error {
			for item := range work {
				size, sealErr := r.sealAndStore(item.chunk)
				results <- sealedResult{seq: item.seq, size: size, err: sealErr}
			}
			return nil
		})
	}

	var readErr error
	seq := 0
	digests := make([]Digest, 0, 64)

	var collectWG sync.WaitGroup
	var collectErr error
	var byteCount int64
	collectWG.Add(1)
	go func() {
		defer collectWG.Done()
		for res := range results {
			if res.err != nil && collectErr == nil {
				collectErr = res.err
			}
			byteCount += res.size
		}
	}()

	// Feed the chunker into the worker pool. The digest of each chunk
	// is already known (it's computed by the chunker itself, before
	// sealing) and recorded here in input order as each chunk is
	// produced -- sealing and storing may complete out of order across
	// workers, but the name index's digest order never depends on
	// that completion order (spec.md §5, §9).
	for {
		chunk, nextErr := chunker.Next()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			readErr = nextErr
			break
		}
		digests = append(digests, chunk.Digest)
		work <- indexed{seq: seq, chunk: chunk}
		seq++
	}
	close(work)
	Ck(group.Wait())
	close(results)
	collectWG.Wait()

	if readErr != nil {
		return result, readErr
	}
	if collectErr != nil {
		return result, collectErr
	}

	err = r.names.write(name, digests)
	Ck(err)

	log.Debugf("sealbox: saved %q as %d chunks / %d bytes", name, len(digests), byteCount)

	return SaveResult{ChunkCount: len(digests), ByteCount: byteCount}, nil
}

// sealAndStore seals one chunk and stores it if not already present,
// skipping the seal entirely when the store already has the digest
// (has is a performance hint, not a correctness gate -- put is
// idempotent on its own, per spec.md §4.6).
func (r *Repository) sealAndStore(chunk Chunk) (size int64, err error) {
	if r.chunks.has(chunk.Digest) {
		log.Debugf("sealbox: chunk %s already stored, skipping seal", chunk.Digest)
		return int64(len(chunk.Data)), nil
	}

	ciphertext, err := seal(chunk.Data, chunk.Digest, r.PubKey)
	if err != nil {
		return 0, err
	}
	if err = r.chunks.put(chunk.Digest, ciphertext); err != nil {
		return 0, err
	}
	return int64(len(chunk.Data)), nil
}
