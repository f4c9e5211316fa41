// Package fingerprint computes deterministic content digests for action descriptions.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
)

// actionKeyVersion is mixed into every action key. Changing it invalidates all keys.
const actionKeyVersion = "kiln.action.v1"

// Digest is a SHA-256 sum.
type Digest [sha256.Size]byte

// Hex returns the lowercase hexadecimal encoding of the digest.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

// String implements fmt.Stringer.
func (d Digest) String() string {
	return d.Hex()
}

// Fingerprint accumulates fields into a digest.
// Every field is length prefixed, so adjacent fields can never be confused.
type Fingerprint struct {
	h   hash.Hash
	buf [binary.MaxVarintLen64]byte
}

// New creates an empty fingerprint.
func New() *Fingerprint {
	return &Fingerprint{h: sha256.New()}
}

func (f *Fingerprint) addUvarint(v uint64) {
	n := binary.PutUvarint(f.buf[:], v)
	_, _ = f.h.Write(f.buf[:n])
}

// AddBytes adds a byte slice.
func (f *Fingerprint) AddBytes(b []byte) {
	f.addUvarint(uint64(len(b)))
	_, _ = f.h.Write(b)
}

// AddString adds a string.
func (f *Fingerprint) AddString(s string) {
	f.addUvarint(uint64(len(s)))
	_, _ = f.h.Write([]byte(s))
}

// AddInt adds an integer.
func (f *Fingerprint) AddInt(v int64) {
	n := binary.PutVarint(f.buf[:], v)
	_, _ = f.h.Write(f.buf[:n])
}

// AddBool adds a boolean.
func (f *Fingerprint) AddBool(v bool) {
	if v {
		f.addUvarint(1)
		return
	}
	f.addUvarint(0)
}

// AddStrings adds an ordered list of strings.
func (f *Fingerprint) AddStrings(ss []string) {
	f.addUvarint(uint64(len(ss)))
	for _, s := range ss {
		f.AddString(s)
	}
}

// AddStringMap adds a map in key order.
func (f *Fingerprint) AddStringMap(m map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	f.addUvarint(uint64(len(keys)))
	for _, k := range keys {
		f.AddString(k)
		f.AddString(m[k])
	}
}

// AddArtifacts adds an ordered list of artifacts by exec path.
func (f *Fingerprint) AddArtifacts(artifacts []domain.Artifact) {
	f.addUvarint(uint64(len(artifacts)))
	for _, a := range artifacts {
		f.AddString(a.ExecPath.String())
	}
}

// Digest returns the digest of everything added so far.
func (f *Fingerprint) Digest() Digest {
	var d Digest
	f.h.Sum(d[:0])
	return d
}
