package sealbox

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

const (
	kiB = 1024
	miB = 1024 * kiB

	// DefaultMinSize is the default minimum chunk size (CHUNK_MIN).
	DefaultMinSize = 512 * kiB
	// DefaultMaxSize is the default maximum chunk size (CHUNK_MAX).
	DefaultMaxSize = 8 * miB
)

// Chunk is one content-defined slice of an input stream, along with
// the digest of its plaintext.
type Chunk struct {
	Data   []byte
	Digest Digest
}

// Chunker splits a byte stream into Chunks at content-defined
// boundaries. It lightly wraps a rollingHasher the same way the
// teacher's Chunker once lightly wrapped restic's: on the chance the
// boundary algorithm needs replacing, callers only ever see Start/Next.
//
// A cut is made when the rolling hasher signals a boundary and the
// buffer has reached MinSize, or unconditionally once the buffer
// reaches MaxSize. At end of stream, any remaining tail -- even one
// shorter than MinSize -- is emitted as the final chunk.
type Chunker struct {
	MinSize uint
	MaxSize uint

	rd   *bufio.Reader
	roll *rollingHasher
	buf  []byte // growing buffer for the chunk currently being assembled
	eof  bool
}

// Init fills in default MinSize/MaxSize if unset and returns a ready
// Chunker value.
func (c Chunker) Init() (*Chunker, error) {
	if c.MinSize == 0 {
		c.MinSize = DefaultMinSize
	}
	if c.MaxSize == 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MinSize > c.MaxSize {
		return nil, errors.Errorf("chunker: MinSize %d exceeds MaxSize %d", c.MinSize, c.MaxSize)
	}
	return &c, nil
}

// Start begins reading chunks from rd.
func (c *Chunker) Start(rd io.Reader) {
	c.rd = bufio.NewReaderSize(rd, int(c.MaxSize/4+1))
	c.roll = newRollingHasher()
	c.buf = make([]byte, 0, c.MaxSize)
	c.eof = false
}

// Next returns the next Chunk, or io.EOF once the stream and any
// final tail chunk have both been consumed.
func (c *Chunker) Next() (Chunk, error) {
	if c.eof && len(c.buf) == 0 {
		return Chunk{}, io.EOF
	}

	for !c.eof {
		b, err := c.rd.ReadByte()
		if err == io.EOF {
			c.eof = true
			break
		}
		if err != nil {
			return Chunk{}, errors.Wrap(err, "chunker: reading input")
		}

		c.buf = append(c.buf, b)
		fp := c.roll.feed(b)
		atMin := uint(len(c.buf)) >= c.MinSize
		atMax := uint(len(c.buf)) >= c.MaxSize
		if atMax || (atMin && c.roll.boundary(fp)) {
			break
		}
	}

	if len(c.buf) == 0 {
		return Chunk{}, io.EOF
	}

	data := c.buf
	c.buf = make([]byte, 0, c.MaxSize)
	c.roll.reset()

	return Chunk{Data: data, Digest: HashBytes(data)}, nil
}
