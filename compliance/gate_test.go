package compliance

import (
	"testing"

	"github.com/obinexus/blueshare/allocation"
	"github.com/obinexus/blueshare/domain/mesh"
)

func session(t *testing.T) *mesh.Session {
	t.Helper()
	host, err := mesh.NewDevice("host", mesh.RoleHost, -60)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	client, err := mesh.NewDevice("client", mesh.RoleClient, -60)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	return mesh.NewSession([]*mesh.Device{host, client})
}

func TestVerifyFailsBeforeAllocators(t *testing.T) {
	s := session(t)
	var gate Gate

	if gate.Verify(s) {
		t.Fatalf("gate passed before any allocator ran")
	}

	report := gate.Check(s)
	if report.Transparency || report.Fairness {
		t.Fatalf("allocator flags reported true without allocation: %+v", report)
	}
	if !report.Privacy || !report.Accessibility {
		t.Fatalf("placeholder predicates must pass: %+v", report)
	}
}

func TestVerifyFailsWithCostStageSkipped(t *testing.T) {
	s := session(t)
	if err := allocation.NewBandwidthAllocator().Allocate(s); err != nil {
		t.Fatalf("bandwidth: %v", err)
	}

	report := Gate{}.Check(s)
	if report.Passed() {
		t.Fatalf("gate passed although cost allocation never ran")
	}
	if !report.Fairness || report.Transparency {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestVerifyPassesAfterBothAllocators(t *testing.T) {
	s := session(t)
	if err := allocation.NewBandwidthAllocator().Allocate(s); err != nil {
		t.Fatalf("bandwidth: %v", err)
	}
	if err := allocation.NewCostAllocator().Allocate(s); err != nil {
		t.Fatalf("cost: %v", err)
	}

	var gate Gate
	if !gate.Verify(s) {
		t.Fatalf("gate failed after both allocators ran")
	}
	if !s.PrivacyVerified {
		t.Fatalf("privacy flag not mirrored onto session")
	}
}
