package ident

import (
	"bytes"

	"github.com/google/uuid"
)

// LongId is a 128-bit identity that survives save/load. Random ids are UUID
// v4, content ids are UUID v5 over Namespace, so the two families never
// overlap.
type LongId [16]byte

// Namespace scopes every derived LongId.
var Namespace = uuid.NameSpaceOID

// NilLong is the zero LongId.
var NilLong LongId

// Random returns a new random LongId.
func Random() LongId {
	return LongId(uuid.New())
}

// Derive hashes canonical bytes into a LongId. Identical input always
// yields the identical id.
func Derive(canonical []byte) LongId {
	return LongId(uuid.NewSHA1(Namespace, canonical))
}

// ParseLong parses the canonical UUID text form.
func ParseLong(s string) (LongId, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return NilLong, err
	}
	return LongId(u), nil
}

// IsNil reports whether id is the zero value.
func (id LongId) IsNil() bool {
	return id == NilLong
}

// Derived reports whether id was produced by Derive.
func (id LongId) Derived() bool {
	return uuid.UUID(id).Version() == 5
}

// Compare orders ids byte by byte.
func (id LongId) Compare(other LongId) int {
	return bytes.Compare(id[:], other[:])
}

func (id LongId) String() string {
	return uuid.UUID(id).String()
}

func (id LongId) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *LongId) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = LongId(u)
	return nil
}
