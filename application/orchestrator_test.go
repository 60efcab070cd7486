package application

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/obinexus/blueshare/allocation"
	"github.com/obinexus/blueshare/consensus"
	"github.com/obinexus/blueshare/domain/mesh"
	"github.com/obinexus/blueshare/events"
	"github.com/obinexus/blueshare/topology"
)

const mib = 1 << 20

func fixtureDevice(t *testing.T, name string, role mesh.DeviceRole, rssi int, sent, received uint64) *mesh.Device {
	t.Helper()
	d, err := mesh.NewDevice(name, role, rssi)
	if err != nil {
		t.Fatalf("NewDevice(%s): %v", name, err)
	}
	d.BytesSent = sent
	d.BytesReceived = received
	return d
}

// fixtureDevices is the reference four-node session: one strong host, two
// strong clients and one marginal relay whose vote comes out ambiguous.
func fixtureDevices(t *testing.T) []*mesh.Device {
	t.Helper()
	host := fixtureDevice(t, "alice", mesh.RoleHost, -65, 5*mib, 2*mib)
	host.BandwidthMbps = 10
	return []*mesh.Device{
		host,
		fixtureDevice(t, "bob", mesh.RoleClient, -68, 3*mib, 1*mib),
		fixtureDevice(t, "carol", mesh.RoleClient, -69, 2*mib, 1*mib),
		fixtureDevice(t, "dave", mesh.RoleRelay, -85, 2*mib, 1*mib),
	}
}

func TestRunEndToEnd(t *testing.T) {
	o := New(nil)
	s := o.NewSession(fixtureDevices(t))

	result, err := o.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Verdict != consensus.VerdictVerified {
		t.Fatalf("verdict = %s, want %s", result.Verdict, consensus.VerdictVerified)
	}
	if result.Tally.Accept != 3 || result.Tally.Reject != 0 || result.Tally.Ambiguous != 1 {
		t.Fatalf("tally = %+v, want 3 accepts, 0 rejects, 1 ambiguous", result.Tally)
	}
	if result.Topology != mesh.TopologyBus {
		t.Fatalf("topology = %s, want %s", result.Topology, mesh.TopologyBus)
	}
	if s.FairShareMbps != 5.0 {
		t.Fatalf("fair share = %v Mbps, want 5.0", s.FairShareMbps)
	}
	if !result.Compliance.Passed() {
		t.Fatalf("compliance report %+v did not pass", result.Compliance)
	}
	if !s.Active {
		t.Fatal("session closed after a successful run")
	}

	// Only the two clients carry a balance to settle.
	if len(result.Payments) != 2 {
		t.Fatalf("got %d payment records, want 2", len(result.Payments))
	}
	for _, name := range []string{"bob", "carol"} {
		var d *mesh.Device
		for _, candidate := range s.Devices {
			if candidate.Name == name {
				d = candidate
			}
		}
		rec, ok := result.Payments[d.ID]
		if !ok {
			t.Fatalf("no payment record for %s", name)
		}
		want := o.Settler.SatoshiFromUSD(d.BalanceUSD)
		if rec.AmountSatoshi != want {
			t.Fatalf("%s settled %d sat, want %d", name, rec.AmountSatoshi, want)
		}
		if d.PaymentStatus != mesh.PaymentSettled {
			t.Fatalf("%s payment status = %s, want %s", name, d.PaymentStatus, mesh.PaymentSettled)
		}
	}

	wantCost := 7 * 1.25 * 15.0 * 0.866 * 0.00001
	host := s.Devices[0]
	if math.Abs(host.BalanceUSD-wantCost) > 1e-12 {
		t.Fatalf("host balance = %v, want %v", host.BalanceUSD, wantCost)
	}

	for _, d := range s.Devices {
		if d.ZeroID == "" {
			t.Fatalf("%s has no privacy identity", d.Name)
		}
	}
}

func TestRunAuditTrail(t *testing.T) {
	o := New(nil)
	s := o.NewSession(fixtureDevices(t))

	if _, err := o.Run(context.Background(), s); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if err := o.Audit.Verify(); err != nil {
		t.Fatalf("audit chain broken: %v", err)
	}

	stages := make([]string, 0, o.Audit.Len())
	for _, e := range o.Audit.Entries() {
		stages = append(stages, e.Stage)
	}
	want := []string{"genesis", "consent", "consensus", "topology", "bandwidth", "cost", "settlement", "settlement", "compliance"}
	if len(stages) != len(want) {
		t.Fatalf("audit stages = %v, want %v", stages, want)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Fatalf("audit stage %d = %s, want %s", i, stages[i], want[i])
		}
	}
}

func TestRunEmitsEvents(t *testing.T) {
	var kinds []events.Kind
	o := New(events.Func(func(e events.Event) {
		kinds = append(kinds, e.Kind)
	}))
	s := o.NewSession(fixtureDevices(t))

	if _, err := o.Run(context.Background(), s); err != nil {
		t.Fatalf("Run: %v", err)
	}

	counts := make(map[events.Kind]int)
	for _, k := range kinds {
		counts[k]++
	}
	if counts[events.ConsentDecided] != 4 {
		t.Fatalf("got %d consent events, want 4", counts[events.ConsentDecided])
	}
	if counts[events.PaymentSettled] != 2 {
		t.Fatalf("got %d settlement events, want 2", counts[events.PaymentSettled])
	}
	for _, k := range []events.Kind{
		events.ConsensusReached,
		events.TopologySelected,
		events.BandwidthAllocated,
		events.CostsAllocated,
		events.ComplianceChecked,
	} {
		if counts[k] != 1 {
			t.Fatalf("got %d %s events, want 1", counts[k], k)
		}
	}
}

func TestRunRejectAbortsSession(t *testing.T) {
	o := New(nil)
	devices := fixtureDevices(t)
	devices = append(devices, fixtureDevice(t, "eve", mesh.RoleClient, -95, 0, 0))
	s := o.NewSession(devices)

	result, err := o.Run(context.Background(), s)
	if !errors.Is(err, ErrConsensusRejected) {
		t.Fatalf("Run err = %v, want ErrConsensusRejected", err)
	}
	if result.Verdict != consensus.VerdictRejected {
		t.Fatalf("verdict = %s, want %s", result.Verdict, consensus.VerdictRejected)
	}
	if s.Active {
		t.Fatal("session still active after rejected consensus")
	}
	if result.Payments != nil {
		t.Fatal("payments issued despite rejected consensus")
	}
}

func TestRunPendingWithoutMajority(t *testing.T) {
	o := New(nil)
	s := o.NewSession([]*mesh.Device{
		fixtureDevice(t, "alice", mesh.RoleHost, -80, 0, 0),
		fixtureDevice(t, "bob", mesh.RoleClient, -82, 0, 0),
	})

	_, err := o.Run(context.Background(), s)
	if !errors.Is(err, ErrConsensusPending) {
		t.Fatalf("Run err = %v, want ErrConsensusPending", err)
	}
	if s.Active {
		t.Fatal("session still active while consensus pending")
	}
}

func TestRunRefusesEmptySession(t *testing.T) {
	o := New(nil)
	s := o.NewSession(nil)

	if _, err := o.Run(context.Background(), s); !errors.Is(err, allocation.ErrEmptySession) {
		t.Fatalf("Run err = %v, want ErrEmptySession", err)
	}
}

func TestRunAbortsWithoutHost(t *testing.T) {
	o := New(nil)
	s := o.NewSession([]*mesh.Device{
		fixtureDevice(t, "bob", mesh.RoleClient, -60, 0, 0),
		fixtureDevice(t, "carol", mesh.RoleClient, -62, 0, 0),
	})

	_, err := o.Run(context.Background(), s)
	if !errors.Is(err, topology.ErrNoHost) {
		t.Fatalf("Run err = %v, want ErrNoHost", err)
	}
	if s.Active {
		t.Fatal("session still active after topology failure")
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	o := New(nil)
	s := o.NewSession(fixtureDevices(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.Run(ctx, s); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
}
