package topology

import (
	"errors"

	"github.com/obinexus/blueshare/domain/mesh"
)

// ErrNoHost signals that no device is willing to share a connection, which
// makes every topology invalid. The session must be aborted, not retried.
var ErrNoHost = errors.New("topology: no host device in session")

// Selector chooses a topology from network composition.
type Selector struct{}

// Select decides the topology from device count N and host count H. The
// rules overlap (N<=3,H==1 also satisfies N<=5,H<=2), so they are evaluated
// strictly in order and the first match wins:
//
//	N <= 3 && H == 1  -> star
//	N <= 5 && H <= 2  -> bus
//	H >= 2            -> mesh
//	otherwise         -> hybrid
//
// With no host it returns star as the degenerate value alongside ErrNoHost.
func (Selector) Select(s *mesh.Session) (mesh.Topology, error) {
	n := len(s.Devices)
	h := s.HostCount()

	if h == 0 {
		return mesh.TopologyStar, ErrNoHost
	}

	switch {
	case n <= 3 && h == 1:
		return mesh.TopologyStar, nil
	case n <= 5 && h <= 2:
		return mesh.TopologyBus, nil
	case h >= 2:
		return mesh.TopologyMesh, nil
	default:
		return mesh.TopologyHybrid, nil
	}
}
