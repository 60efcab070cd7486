package mesh

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"time"
)

// ConsentRecord is a device's vote for one consensus round. Entropy is only
// meaningful for the ambiguous state, where it carries the channel-entropy
// measurement that accompanied the decision. Records are immutable once
// signed; a re-vote replaces the whole record.
type ConsentRecord struct {
	DeviceID  string       `json:"device_id"`
	State     ConsentState `json:"state"`
	Entropy   float64      `json:"entropy,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Signature []byte       `json:"sig,omitempty"`
}

// serialize returns the JSON marshaled form of the record with the Signature
// field cleared to ensure the signature is not included in signed data.
func (r *ConsentRecord) serialize() ([]byte, error) {
	tmp := *r
	tmp.Signature = nil
	return json.Marshal(tmp)
}

// Sign signs the record using the provided Ed25519 private key. It stamps the
// record with the current time before signing.
func (r *ConsentRecord) Sign(priv ed25519.PrivateKey) error {
	r.Timestamp = time.Now()
	b, err := r.serialize()
	if err != nil {
		return err
	}
	r.Signature = ed25519.Sign(priv, b)
	return nil
}

// VerifySignature verifies the record's signature using the provided Ed25519
// public key. Returns an error if the signature is missing or serialization
// fails.
func (r *ConsentRecord) VerifySignature(pub ed25519.PublicKey) (bool, error) {
	if len(r.Signature) == 0 {
		return false, errors.New("missing signature")
	}
	b, err := r.serialize()
	if err != nil {
		return false, err
	}
	return ed25519.Verify(pub, b, r.Signature), nil
}
