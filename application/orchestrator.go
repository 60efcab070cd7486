// Package application sequences the consensus-and-settlement pipeline over
// one session: consent, consensus, topology, bandwidth, cost, settlement
// and the compliance gate, aborting between stages on a negative verdict.
package application

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/obinexus/blueshare/allocation"
	"github.com/obinexus/blueshare/compliance"
	"github.com/obinexus/blueshare/config"
	"github.com/obinexus/blueshare/consensus"
	"github.com/obinexus/blueshare/consent"
	"github.com/obinexus/blueshare/domain/mesh"
	"github.com/obinexus/blueshare/events"
	"github.com/obinexus/blueshare/ledger"
	"github.com/obinexus/blueshare/payment"
	"github.com/obinexus/blueshare/privacy"
	"github.com/obinexus/blueshare/topology"
)

// Terminal verdicts of a pipeline run. They are normal negative outcomes,
// not faults: the orchestrator aborts the session and never retries.
var (
	ErrConsensusRejected = errors.New("application: consensus rejected, session aborted")
	ErrConsensusPending  = errors.New("application: consensus pending, session cannot activate")
	ErrComplianceFailed  = errors.New("application: compliance gate failed, session aborted")
)

// Orchestrator owns the pipeline stages and the session-level state they
// share. No two stages run concurrently over the same session; only the
// per-device consent requests fan out.
type Orchestrator struct {
	Consent   *consent.Engine
	Consensus consensus.Aggregator
	Topology  topology.Selector
	Bandwidth allocation.BandwidthAllocator
	Costs     allocation.CostAllocator
	Settler   *payment.Settler
	Gate      compliance.Gate
	Encoder   *privacy.Encoder
	Audit     *ledger.Ledger
	Emitter   events.Emitter
}

// New returns an orchestrator with canonical defaults. A nil emitter
// silently discards events.
func New(emitter events.Emitter) *Orchestrator {
	return NewFromConfig(config.Default(), emitter)
}

// NewFromConfig wires the stages from a validated config.
func NewFromConfig(cfg config.Config, emitter events.Emitter) *Orchestrator {
	if emitter == nil {
		emitter = events.Nop{}
	}

	engine := consent.NewEngine()
	engine.AcceptThreshold = cfg.Consent.AcceptThresholdDBm
	engine.RejectThreshold = cfg.Consent.RejectThresholdDBm
	engine.Entropy = consent.ChannelEntropy{Samples: cfg.Consent.EntropySamples}

	settler := payment.NewSettler()
	settler.BTCPriceUSD = cfg.Payment.BTCPriceUSD
	settler.InvoiceTTL = cfg.Payment.InvoiceTTL

	audit := ledger.New()
	settler.Audit = audit

	return &Orchestrator{
		Consent:   engine,
		Bandwidth: allocation.BandwidthAllocator{FairShareFactor: cfg.Bandwidth.FairShareFactor},
		Costs: allocation.CostAllocator{Model: allocation.CostModel{
			ForceNewtons:   cfg.Cost.ForceNewtons,
			DistanceMeters: cfg.Cost.DistanceMeters,
			CosineTheta:    cfg.Cost.CosineTheta,
			RatePerJoule:   cfg.Cost.RatePerJoule,
		}},
		Settler: settler,
		Encoder: privacy.NewEncoder(),
		Audit:   audit,
		Emitter: emitter,
	}
}

// Result is the aggregate outcome of a pipeline run. On early abort the
// fields up to the failed stage are populated.
type Result struct {
	Verdict    consensus.Verdict
	Tally      consensus.Tally
	Topology   mesh.Topology
	Payments   map[string]*mesh.PaymentRecord
	Compliance compliance.Report
}

// NewSession builds a session over the given devices.
func (o *Orchestrator) NewSession(devices []*mesh.Device) *mesh.Session {
	return mesh.NewSession(devices)
}

// Run drives the session through the full pipeline. It returns the partial
// result together with the terminal error when a stage aborts the run; a
// nil error means the session passed the compliance gate and is operating.
func (o *Orchestrator) Run(ctx context.Context, s *mesh.Session) (*Result, error) {
	result := &Result{}

	if len(s.Devices) == 0 {
		return result, fmt.Errorf("refusing to run: %w", allocation.ErrEmptySession)
	}

	// Privacy provisioning happens before any device state is shared.
	for _, d := range s.Devices {
		d.ZeroID = o.Encoder.NewZeroID(d.ID).String()
	}

	if err := o.runConsent(ctx, s); err != nil {
		return result, err
	}

	verdict, tally := o.Consensus.Decide(s)
	result.Verdict = verdict
	result.Tally = tally
	o.emit(events.ConsensusReached, s.ID, map[string]any{
		"verdict":   string(verdict),
		"accept":    tally.Accept,
		"reject":    tally.Reject,
		"ambiguous": tally.Ambiguous,
	})
	if err := o.commit("consensus", map[string]any{"verdict": string(verdict)}); err != nil {
		return result, err
	}
	switch verdict {
	case consensus.VerdictRejected:
		o.close(s)
		return result, ErrConsensusRejected
	case consensus.VerdictPending:
		o.close(s)
		return result, ErrConsensusPending
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	topo, err := o.Topology.Select(s)
	if err != nil {
		o.close(s)
		return result, fmt.Errorf("topology selection: %w", err)
	}
	s.Topology = topo
	s.Plan = topology.BuildPlan(s, topo)
	result.Topology = topo
	o.emit(events.TopologySelected, s.ID, map[string]any{"topology": string(topo)})
	if err := o.commit("topology", map[string]any{"topology": string(topo)}); err != nil {
		return result, err
	}

	if err := o.Bandwidth.Allocate(s); err != nil {
		o.close(s)
		return result, fmt.Errorf("bandwidth allocation: %w", err)
	}
	o.emit(events.BandwidthAllocated, s.ID, map[string]any{
		"total_mbps":      s.TotalBandwidthMbps,
		"fair_share_mbps": s.FairShareMbps,
	})
	if err := o.commit("bandwidth", map[string]any{"fair_share_mbps": s.FairShareMbps}); err != nil {
		return result, err
	}

	if err := o.Costs.Allocate(s); err != nil {
		o.close(s)
		return result, fmt.Errorf("cost allocation: %w", err)
	}
	o.emit(events.CostsAllocated, s.ID, map[string]any{
		"total_usd":      s.TotalCostUSD,
		"per_device_usd": s.CostPerDevice,
	})
	if err := o.commit("cost", map[string]any{"total_usd": s.TotalCostUSD}); err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	payments, err := o.Settler.Settle(s)
	if err != nil {
		o.close(s)
		return result, fmt.Errorf("settlement: %w", err)
	}
	result.Payments = payments
	for id, rec := range payments {
		ev := events.New(events.PaymentSettled, s.ID, map[string]any{
			"invoice":        rec.Invoice,
			"amount_satoshi": rec.AmountSatoshi,
			"amount_usd":     rec.AmountUSD,
		})
		ev.Device = id
		o.Emitter.Emit(ev)
	}

	report := o.Gate.Check(s)
	result.Compliance = report
	o.emit(events.ComplianceChecked, s.ID, map[string]any{
		"transparency":  report.Transparency,
		"fairness":      report.Fairness,
		"privacy":       report.Privacy,
		"accessibility": report.Accessibility,
		"passed":        report.Passed(),
	})
	if err := o.commit("compliance", map[string]any{"passed": report.Passed()}); err != nil {
		return result, err
	}
	if !report.Passed() {
		o.close(s)
		return result, ErrComplianceFailed
	}

	return result, nil
}

// Close ends an operating session.
func (o *Orchestrator) Close(s *mesh.Session) {
	o.close(s)
}

// runConsent fans the consent requests out over the devices and fans back
// in before aggregation. Each goroutine only writes its own device's
// record, so no further synchronization is needed; events are emitted after
// the fan-in to keep the emitter single-threaded.
func (o *Orchestrator) runConsent(ctx context.Context, s *mesh.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	errs := make([]error, len(s.Devices))
	var wg sync.WaitGroup
	for i, d := range s.Devices {
		wg.Add(1)
		go func(i int, d *mesh.Device) {
			defer wg.Done()
			_, errs[i] = o.Consent.RequestConsent(d)
		}(i, d)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("consent for %s: %w", s.Devices[i].Name, err)
		}
	}

	for _, d := range s.Devices {
		ev := events.New(events.ConsentDecided, s.ID, map[string]any{
			"state":   string(d.Consent.State),
			"rssi":    d.RSSI,
			"entropy": d.Consent.Entropy,
		})
		ev.Device = d.ID
		o.Emitter.Emit(ev)
	}
	return o.commit("consent", map[string]any{"devices": len(s.Devices)})
}

func (o *Orchestrator) emit(kind events.Kind, sessionID string, fields map[string]any) {
	o.Emitter.Emit(events.New(kind, sessionID, fields))
}

func (o *Orchestrator) commit(stage string, payload map[string]any) error {
	if o.Audit == nil {
		return nil
	}
	if err := o.Audit.Append(stage, payload); err != nil {
		return fmt.Errorf("audit %s: %w", stage, err)
	}
	return nil
}

func (o *Orchestrator) close(s *mesh.Session) {
	s.Close()
	o.emit(events.SessionClosed, s.ID, map[string]any{"active": s.Active})
}
