package consent

import (
	"fmt"

	"github.com/obinexus/blueshare/domain/mesh"
)

// Default signal-strength thresholds in dBm. A reading above the accept
// threshold is a strong channel, below the reject threshold an unusable one,
// and the inclusive band between them is the marginal zone that triggers an
// entropy measurement.
const (
	DefaultAcceptThreshold = -70
	DefaultRejectThreshold = -90
)

// Engine decides per-device participation consent from signal strength.
type Engine struct {
	AcceptThreshold int
	RejectThreshold int
	Entropy         EntropySource
}

// NewEngine returns an engine with the default thresholds and entropy source.
func NewEngine() *Engine {
	return &Engine{
		AcceptThreshold: DefaultAcceptThreshold,
		RejectThreshold: DefaultRejectThreshold,
		Entropy:         ChannelEntropy{Samples: DefaultSampleCount},
	}
}

// RequestConsent evaluates the device's current signal strength and installs
// a fresh signed consent record on the device, replacing any previous one.
// Only the ambiguous branch consumes an entropy draw. There are no retries:
// the decision is a pure function of the reading plus at most one draw.
func (e *Engine) RequestConsent(d *mesh.Device) (mesh.ConsentState, error) {
	rec := &mesh.ConsentRecord{DeviceID: d.ID}

	switch {
	case d.RSSI > e.AcceptThreshold:
		rec.State = mesh.ConsentAccept
	case d.RSSI < e.RejectThreshold:
		rec.State = mesh.ConsentReject
	default:
		rec.State = mesh.ConsentAmbiguous
		rec.Entropy = e.Entropy.Measure()
	}

	if err := d.SetConsent(rec); err != nil {
		return "", fmt.Errorf("sign consent for %s: %w", d.Name, err)
	}
	return rec.State, nil
}
