package consent

import (
	"math"

	"go.dedis.ch/kyber/v4/util/random"
)

// DefaultSampleCount is the number of byte samples drawn per measurement.
const DefaultSampleCount = 64

// EntropySource produces a channel-entropy measurement in bits. The value is
// a tie-break signal for ambiguous consent, not a calibrated estimate of
// physical channel entropy.
type EntropySource interface {
	Measure() float64
}

// ChannelEntropy measures Shannon entropy over byte samples drawn from a
// cryptographically strong random stream. Each sample contributes at most
// log2(e)/e bits, so the default 64 samples bound the result below 34.
type ChannelEntropy struct {
	Samples int
}

// Measure draws the samples and sums -p*log2(p) with p = sample/255.
func (c ChannelEntropy) Measure() float64 {
	n := c.Samples
	if n <= 0 {
		n = DefaultSampleCount
	}
	buf := make([]byte, n)
	random.Bytes(buf, random.New())

	var entropy float64
	for _, s := range buf {
		p := float64(s) / 255.0
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}
