package sealbox

// rollingWindow is the number of trailing bytes (W) the rolling
// hasher's fingerprint is sensitive to. Fixed per spec §4.1 rather
// than configurable: changing it would change chunk boundaries for
// every existing repository.
const rollingWindow = 64

// boundaryBits is the number of low-order fingerprint bits (B) that
// must be zero for the rolling hasher to signal a boundary. B = 13
// targets an average chunk size of 2^13 = 8192 bytes.
const boundaryBits = 13

const boundaryMask = uint32(1)<<boundaryBits - 1

// rollingHasher maintains a 32-bit fingerprint over the trailing
// rollingWindow bytes fed to it. The fingerprint is a sum of each
// windowed byte weighted by its age in the window (a Rabin-Karp-style
// additive rolling sum, in the lineage of bup's rollsum): on each byte
// appended, the byte leaving the window (rollingWindow positions back)
// is subtracted and the entering byte is added, both in O(1).
//
// A fresh rollingHasher must be used per chunk: this design does not
// carry the window across a cut (see spec.md §4.2, §9), so a chunk's
// boundary decisions are a pure function of that chunk's own bytes.
type rollingHasher struct {
	window [rollingWindow]byte
	pos    int    // next slot in window to overwrite
	filled int    // number of bytes fed so far, capped at rollingWindow
	s1, s2 uint32 // s1: sum of window bytes; s2: window bytes weighted by age (newest 1, oldest rollingWindow)
}

func newRollingHasher() *rollingHasher {
	return &rollingHasher{}
}

// feed appends one byte to the trailing window and returns the
// updated 32-bit fingerprint.
func (r *rollingHasher) feed(b byte) uint32 {
	leaving := r.window[r.pos]
	r.window[r.pos] = b
	r.pos = (r.pos + 1) % rollingWindow
	if r.filled < rollingWindow {
		r.filled++
	}

	r.s1 += uint32(b) - uint32(leaving)
	r.s2 += r.s1 - rollingWindow*uint32(leaving)

	return r.s2
}

// boundary reports whether the current fingerprint marks a chunk
// boundary: the low boundaryBits bits of the fingerprint are all zero.
func (r *rollingHasher) boundary(fingerprint uint32) bool {
	return fingerprint&boundaryMask == 0
}

// reset clears the hasher back to its zero state, as required between
// chunks.
func (r *rollingHasher) reset() {
	*r = rollingHasher{}
}
