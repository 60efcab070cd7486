package allocation

import (
	"errors"

	"github.com/obinexus/blueshare/domain/mesh"
)

// ErrEmptySession signals an allocation request over zero devices, which is
// fatal to the session's pipeline run.
var ErrEmptySession = errors.New("allocation: session has no devices")

// DefaultFairShareFactor encodes the "double allocation, half duration"
// policy: each device is planned twice its arithmetic share of bandwidth on
// the assumption of time-division multiplexing. It is a planning heuristic,
// not a throughput guarantee.
const DefaultFairShareFactor = 2.0

// BandwidthAllocator splits host capacity into per-device fair shares.
type BandwidthAllocator struct {
	FairShareFactor float64
}

// NewBandwidthAllocator returns an allocator with the default policy factor.
func NewBandwidthAllocator() BandwidthAllocator {
	return BandwidthAllocator{FairShareFactor: DefaultFairShareFactor}
}

// Allocate sums advertised capacity over host devices and writes the session
// aggregates. Completing an allocation pass asserts the fairness flag; the
// allocator does not itself validate fairness.
func (b BandwidthAllocator) Allocate(s *mesh.Session) error {
	if len(s.Devices) == 0 {
		return ErrEmptySession
	}

	factor := b.FairShareFactor
	if factor == 0 {
		factor = DefaultFairShareFactor
	}

	total := 0.0
	for _, d := range s.Devices {
		if d.Role == mesh.RoleHost {
			total += d.BandwidthMbps
		}
	}

	s.TotalBandwidthMbps = total
	s.FairShareMbps = total * factor / float64(len(s.Devices))
	s.FairnessVerified = true
	return nil
}
