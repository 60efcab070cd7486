package mesh

import (
	"time"

	"github.com/google/uuid"
)

// Session is one short-lived network session. It owns its devices and the
// topology plan; the bandwidth and cost aggregates stay zero until the
// corresponding pipeline stage has run, and the compliance flags only ever
// transition from false to true.
type Session struct {
	ID       string
	Topology Topology
	Devices  []*Device
	Plan     *TopologyPlan

	TotalBandwidthMbps float64
	FairShareMbps      float64

	TotalCostUSD  float64
	CostPerDevice float64

	StartedAt time.Time
	EndedAt   time.Time
	Active    bool

	TransparencyVerified bool
	FairnessVerified     bool
	PrivacyVerified      bool
}

// NewSession creates an active session over the given devices.
func NewSession(devices []*Device) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Devices:   devices,
		StartedAt: time.Now(),
		Active:    true,
	}
}

// HostCount returns the number of host-role devices.
func (s *Session) HostCount() int {
	n := 0
	for _, d := range s.Devices {
		if d.Role == RoleHost {
			n++
		}
	}
	return n
}

// DeviceByID returns the session device with the given ID, or nil.
func (s *Session) DeviceByID(id string) *Device {
	for _, d := range s.Devices {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Close marks the session finished. Idempotent.
func (s *Session) Close() {
	if !s.Active {
		return
	}
	s.Active = false
	s.EndedAt = time.Now()
}

// TopologyPlan stores topology membership as flat tables indexed by device
// ID, owned by the session. Devices never hold links to each other, so there
// are no ownership cycles between Device and Session.
type TopologyPlan struct {
	Topology Topology
	// Parent maps a device to the device it attaches to. Roots map to "".
	Parent map[string]string
	// Peers holds the adjacency list for meshed devices.
	Peers map[string][]string
}

// NewTopologyPlan returns an empty plan for the given topology.
func NewTopologyPlan(t Topology) *TopologyPlan {
	return &TopologyPlan{
		Topology: t,
		Parent:   make(map[string]string),
		Peers:    make(map[string][]string),
	}
}

// AddLink records an undirected peer link between two devices.
func (p *TopologyPlan) AddLink(a, b string) {
	p.Peers[a] = append(p.Peers[a], b)
	p.Peers[b] = append(p.Peers[b], a)
}

// Linked reports whether a and b share a peer link.
func (p *TopologyPlan) Linked(a, b string) bool {
	for _, id := range p.Peers[a] {
		if id == b {
			return true
		}
	}
	return false
}
