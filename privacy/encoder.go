// Package privacy implements the phantom-encoder identity layer: devices
// get a salted, hashed ZeroID whose verification key is derived separately,
// so proving possession of an identity never reveals the device ID behind
// it. It backs the compliance gate's privacy predicate.
package privacy

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"go.dedis.ch/kyber/v4/util/random"
)

const (
	// Version is the current ZeroID format version.
	Version byte = 1
	// saltLen is the salt size in bytes.
	saltLen = 32
	// DefaultKeyTTL is how long a derived verification key stays valid.
	DefaultKeyTTL = 30 * 24 * time.Hour
)

// ZeroID is a zero-knowledge device identity: a hash over the device ID and
// a fresh salt. The salt makes IDs unlinkable across issues.
type ZeroID struct {
	Version byte
	Salt    []byte
	Hash    []byte
	Created time.Time
}

// String renders the identity hash as hex.
func (z ZeroID) String() string {
	return hex.EncodeToString(z.Hash)
}

// Key is a verification key derived one-way from a ZeroID. The key cannot
// reveal the ID it was derived from.
type Key struct {
	MAC     []byte
	Created time.Time
	Expires time.Time
}

// Expired reports whether the key is past its expiry at the given time.
func (k Key) Expired(now time.Time) bool {
	return now.After(k.Expires)
}

// Encoder issues ZeroIDs and derives their verification keys from a master
// secret that is never transmitted.
type Encoder struct {
	master []byte
	keyTTL time.Duration
}

// NewEncoder creates an encoder with a fresh 32-byte master secret drawn
// from a cryptographically strong source.
func NewEncoder() *Encoder {
	master := make([]byte, 32)
	random.Bytes(master, random.New())
	return &Encoder{master: master, keyTTL: DefaultKeyTTL}
}

// NewZeroID issues a fresh identity for the device: a new salt is drawn on
// every call, so repeated issues for the same device do not correlate.
func (e *Encoder) NewZeroID(deviceID string) ZeroID {
	salt := make([]byte, saltLen)
	random.Bytes(salt, random.New())

	sum := sha256.Sum256(append([]byte(deviceID), salt...))
	return ZeroID{
		Version: Version,
		Salt:    salt,
		Hash:    sum[:],
		Created: time.Now(),
	}
}

// DeriveKey derives the verification key for a ZeroID via HMAC under the
// master secret. The relationship is one-way: holding the key does not
// reveal the ID hash preimage, and only this encoder can re-derive it.
func (e *Encoder) DeriveKey(z ZeroID) Key {
	mac := hmac.New(sha256.New, e.master)
	mac.Write(z.Hash)
	now := time.Now()
	return Key{
		MAC:     mac.Sum(nil),
		Created: now,
		Expires: now.Add(e.keyTTL),
	}
}

// VerifyKey checks that a presented key was derived from the given ZeroID
// by this encoder.
func (e *Encoder) VerifyKey(z ZeroID, k Key) bool {
	want := e.DeriveKey(z)
	return hmac.Equal(want.MAC, k.MAC)
}
