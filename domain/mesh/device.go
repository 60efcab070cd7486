package mesh

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultMTU is the BLE transmission unit assumed when a device does not
// advertise one.
const DefaultMTU = 512

// Device is a physically discovered participant in a session. Identity and
// role are fixed at creation; the byte counters, balance, payment status and
// consent record are each written once per pipeline stage.
type Device struct {
	ID   string
	Name string
	Role DeviceRole

	RSSI int // dBm, negative
	MTU  int

	BytesSent     uint64
	BytesReceived uint64
	BandwidthMbps float64 // advertised capacity, meaningful for hosts only

	BalanceUSD    float64
	PaymentStatus PaymentState

	Consent *ConsentRecord

	// ZeroID is the privacy-preserving identity issued at session start,
	// empty until the privacy layer has run.
	ZeroID string

	LastSeen time.Time

	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewDevice registers a device with a fresh identity and signing keypair.
func NewDevice(name string, role DeviceRole, rssi int) (*Device, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("generate device key: %w", err)
	}
	return &Device{
		ID:            uuid.NewString(),
		Name:          name,
		Role:          role,
		RSSI:          rssi,
		MTU:           DefaultMTU,
		PaymentStatus: PaymentPending,
		LastSeen:      time.Now(),
		priv:          priv,
		pub:           pub,
	}, nil
}

// PublicKey returns the device's verification key.
func (d *Device) PublicKey() ed25519.PublicKey {
	return d.pub
}

// SetConsent signs the record with the device key and installs it, replacing
// any previous record. No history is kept across re-votes.
func (d *Device) SetConsent(rec *ConsentRecord) error {
	if err := rec.Sign(d.priv); err != nil {
		return err
	}
	d.Consent = rec
	return nil
}

// MBUsed is the device's total data usage in megabytes.
func (d *Device) MBUsed() float64 {
	return float64(d.BytesSent+d.BytesReceived) / (1024.0 * 1024.0)
}
