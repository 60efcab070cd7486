// Package registry supplies the initial device records the pipeline runs
// over. The transport that measures signal strength and byte counters is an
// external collaborator; this package only defines how its output reaches
// the orchestrator.
package registry

import (
	"context"

	"github.com/obinexus/blueshare/domain/mesh"
)

// Source yields the devices participating in a session.
type Source interface {
	Devices(ctx context.Context) ([]*mesh.Device, error)
}

// Static is a fixed device source, used by fixtures and the demo driver.
type Static struct {
	devices []*mesh.Device
}

// NewStatic wraps the given devices.
func NewStatic(devices ...*mesh.Device) *Static {
	return &Static{devices: devices}
}

// Devices returns the registered devices. The slice is a copy; the devices
// themselves are shared, since the pipeline mutates them in place.
func (s *Static) Devices(ctx context.Context) ([]*mesh.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]*mesh.Device, len(s.devices))
	copy(out, s.devices)
	return out, nil
}
