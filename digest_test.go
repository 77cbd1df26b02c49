package sealbox

import "testing"

func TestHashBytesDeterministic(t *testing.T) {
	a := HashBytes([]byte("hello world"))
	b := HashBytes([]byte("hello world"))
	tassert(t, a == b, "HashBytes is not deterministic: %s != %s", a, b)
}

func TestHashBytesDistinguishes(t *testing.T) {
	a := HashBytes([]byte("hello"))
	b := HashBytes([]byte("world"))
	tassert(t, a != b, "HashBytes collided for distinct inputs")
}

func TestDigestHexRoundTrip(t *testing.T) {
	d := HashBytes([]byte("round trip me"))
	got, err := ParseDigest(d.String())
	tassert(t, err == nil, "ParseDigest: %v", err)
	tassert(t, got == d, "round trip mismatch: %s != %s", got, d)
}

func TestParseDigestRejectsBadLength(t *testing.T) {
	_, err := ParseDigest("deadbeef")
	tassert(t, err != nil, "expected error for short digest string")
}

func TestDigestFanout(t *testing.T) {
	d := HashBytes([]byte("fanout"))
	fo := d.fanout()
	tassert(t, len(fo) == 2, "fanout should be 2 hex chars, got %q", fo)
	tassert(t, fo == d.String()[:2], "fanout %q should be the digest's first 2 hex chars (%q)", fo, d.String()[:2])
}
