/*

sealbox is a content-addressable, deduplicating, sealed-box-encrypted
backup store. A caller streams arbitrary bytes in under a human-readable
name; sealbox splits the stream into variable-sized chunks at
content-defined boundaries, stores each unique chunk encrypted at rest
under its digest, and records the name as an ordered list of digests.
Given the same name and the repository's secret key, sealbox
reconstructs the original bytes exactly.

Vocabulary:

- digest: a 256-bit cryptographic hash of a chunk's plaintext; doubles
  as its storage key
- chunk: a contiguous byte range of an input stream, bounded by
  content-defined cuts, stored as one encrypted object
- content-defined chunking: boundary selection driven by a rolling hash
  over a sliding window rather than fixed offsets, so that local edits
  shift few boundaries
- sealed box: an asymmetric-encryption envelope any holder of the
  repository public key can produce; only the secret-key holder can open
  it
- name: a caller-chosen identifier under which an ordered digest list is
  persisted, write-once
- repository: a directory holding the public key, the chunk store, and
  the set of names

This core is deliberately narrow: no random access into a stored name,
no in-place mutation of a name once written, no multi-writer
coordination, no garbage collection of orphaned chunks. See spec.md and
SPEC_FULL.md for the full design.

*/

package sealbox
