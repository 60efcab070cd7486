package allocation

import "github.com/obinexus/blueshare/domain/mesh"

// CostModel is the fixed physical model behind cost allocation: moving a
// megabyte is priced as mechanical work, W = F * d * cos(theta), converted
// to USD at a flat microtransaction rate per work unit.
type CostModel struct {
	ForceNewtons   float64
	DistanceMeters float64
	CosineTheta    float64
	RatePerJoule   float64
}

// DefaultCostModel returns the canonical constants: 1.25 N over 15 m at
// cos(30 degrees), priced at 1e-5 USD per work unit.
func DefaultCostModel() CostModel {
	return CostModel{
		ForceNewtons:   1.25,
		DistanceMeters: 15.0,
		CosineTheta:    0.866,
		RatePerJoule:   0.00001,
	}
}

// WorkPerMB is the work required to move one megabyte.
func (m CostModel) WorkPerMB() float64 {
	return m.ForceNewtons * m.DistanceMeters * m.CosineTheta
}

// CostAllocator assigns usage-proportional costs from the fixed model.
type CostAllocator struct {
	Model CostModel
}

// NewCostAllocator returns an allocator over the default model.
func NewCostAllocator() CostAllocator {
	return CostAllocator{Model: DefaultCostModel()}
}

// Allocate prices each device's byte counters, writes the device balances
// and the session aggregates, and asserts the transparency flag. The
// computation is closed-form; there is no external pricing lookup.
func (c CostAllocator) Allocate(s *mesh.Session) error {
	if len(s.Devices) == 0 {
		return ErrEmptySession
	}

	workPerMB := c.Model.WorkPerMB()

	s.TotalCostUSD = 0
	for _, d := range s.Devices {
		cost := d.MBUsed() * workPerMB * c.Model.RatePerJoule
		d.BalanceUSD = cost
		s.TotalCostUSD += cost
	}
	s.CostPerDevice = s.TotalCostUSD / float64(len(s.Devices))
	s.TransparencyVerified = true
	return nil
}
