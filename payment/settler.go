package payment

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/obinexus/blueshare/domain/mesh"
	"github.com/obinexus/blueshare/ledger"
)

const (
	// DefaultBTCPriceUSD is the fixed USD/BTC reference price anchoring the
	// satoshi conversion.
	DefaultBTCPriceUSD = 40000.0
	// SatoshiPerBTC is the Bitcoin subunit count.
	SatoshiPerBTC = 100_000_000
	// DefaultInvoiceTTL is the invoice expiry window.
	DefaultInvoiceTTL = 10 * time.Minute
)

// Settler converts accrued client balances into settled payment records.
// This pipeline models instantaneous settlement: records are created
// Authorized and immediately transition to Settled with no confirmation
// wait.
type Settler struct {
	BTCPriceUSD float64
	InvoiceTTL  time.Duration

	// Audit receives one entry per settled record when set.
	Audit *ledger.Ledger

	now func() time.Time
}

// NewSettler returns a settler at the default reference price and TTL.
func NewSettler() *Settler {
	return &Settler{
		BTCPriceUSD: DefaultBTCPriceUSD,
		InvoiceTTL:  DefaultInvoiceTTL,
		now:         time.Now,
	}
}

// Settle produces one payment record per eligible device, keyed by device
// ID. Eligible means client role with a strictly positive balance;
// zero-balance and non-client devices are skipped entirely. The settled
// status is mirrored onto the device.
func (s *Settler) Settle(sess *mesh.Session) (map[string]*mesh.PaymentRecord, error) {
	records := make(map[string]*mesh.PaymentRecord)
	for _, d := range sess.Devices {
		if d.Role != mesh.RoleClient || d.BalanceUSD <= 0 {
			continue
		}

		rec := s.createRecord(d.BalanceUSD)
		rec.Status = mesh.PaymentSettled
		d.PaymentStatus = mesh.PaymentSettled
		records[d.ID] = rec

		if s.Audit != nil {
			if err := s.Audit.Append("settlement", rec); err != nil {
				return nil, fmt.Errorf("audit settlement for %s: %w", d.Name, err)
			}
		}
	}
	return records, nil
}

// createRecord builds an authorized invoice-like record for the amount. The
// payment hash covers the amount and creation time, which keeps it unique
// across records created in the same process.
func (s *Settler) createRecord(amountUSD float64) *mesh.PaymentRecord {
	created := s.clock()()
	sat := s.SatoshiFromUSD(amountUSD)

	sum := sha256.Sum256([]byte(fmt.Sprintf("%f%d", amountUSD, created.UnixNano())))
	hash := hex.EncodeToString(sum[:])

	ttl := s.InvoiceTTL
	if ttl == 0 {
		ttl = DefaultInvoiceTTL
	}

	return &mesh.PaymentRecord{
		Invoice:       fmt.Sprintf("lnbc%du1p%s...", sat, hash[:10]),
		AmountSatoshi: sat,
		AmountUSD:     amountUSD,
		PaymentHash:   hash,
		CreatedAt:     created,
		Expiry:        created.Add(ttl),
		Status:        mesh.PaymentAuthorized,
	}
}

// SatoshiFromUSD converts a USD amount at the fixed reference price.
func (s *Settler) SatoshiFromUSD(usd float64) uint64 {
	price := s.BTCPriceUSD
	if price == 0 {
		price = DefaultBTCPriceUSD
	}
	return uint64(math.Round(usd / price * SatoshiPerBTC))
}

// USDFromSatoshi is the inverse conversion; round trips agree with
// SatoshiFromUSD within one satoshi.
func (s *Settler) USDFromSatoshi(sat uint64) float64 {
	price := s.BTCPriceUSD
	if price == 0 {
		price = DefaultBTCPriceUSD
	}
	return float64(sat) / SatoshiPerBTC * price
}

func (s *Settler) clock() func() time.Time {
	if s.now == nil {
		return time.Now
	}
	return s.now
}
