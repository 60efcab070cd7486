package registry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/obinexus/blueshare/domain/mesh"
)

func TestStaticReturnsCopy(t *testing.T) {
	host, err := mesh.NewDevice("host", mesh.RoleHost, -60)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	src := NewStatic(host)

	devices, err := src.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	devices[0] = nil

	again, err := src.Devices(context.Background())
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	if again[0] != host {
		t.Fatalf("source slice was mutated through the returned copy")
	}
}

func TestStaticHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewStatic().Devices(ctx); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestAnnouncementDevice(t *testing.T) {
	ann := Announcement{
		Name:          "Alice's Phone",
		Role:          mesh.RoleHost,
		RSSI:          -65,
		MTU:           247,
		BandwidthMbps: 10.0,
		BytesSent:     5242880,
		BytesReceived: 2097152,
	}
	d, err := ann.Device()
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if d.ID == "" {
		t.Errorf("device not assigned an ID")
	}
	if d.Role != mesh.RoleHost || d.RSSI != -65 || d.MTU != 247 {
		t.Errorf("descriptor not carried over: %+v", d)
	}
	if d.BytesSent != 5242880 || d.BytesReceived != 2097152 {
		t.Errorf("byte counters not carried over: %+v", d)
	}
}

func TestAnnouncementDeviceDefaultMTU(t *testing.T) {
	d, err := Announcement{Name: "n", Role: mesh.RoleClient, RSSI: -72}.Device()
	if err != nil {
		t.Fatalf("Device: %v", err)
	}
	if d.MTU != mesh.DefaultMTU {
		t.Fatalf("MTU = %d, want default %d", d.MTU, mesh.DefaultMTU)
	}
}

func TestAnnounceDiscoversPeers(t *testing.T) {
	n := 3
	fatal := make(chan error)
	for i := range n {
		go func() {
			ann, err := Announce(
				Announcement{Name: fmt.Sprint(i), Role: mesh.RoleClient, RSSI: -70 - i},
				WithPortRange(9400, 9410),
				WithAttempts(2),
			)
			if err != nil {
				fatal <- err
				return
			}
			seen := make(map[string]struct{})
			for range n - 1 {
				entry := <-ann.Entries
				seen[entry.Name] = struct{}{}
			}
			for j := range n {
				if j == i {
					continue
				}
				if _, ok := seen[fmt.Sprint(j)]; !ok {
					fatal <- fmt.Errorf("node %d did not find peer %d", i, j)
					return
				}
			}
			time.Sleep(3 * time.Second)
			fatal <- ann.Close()
		}()
	}
	for range n {
		if err := <-fatal; err != nil {
			t.Fatal(err)
		}
	}
}
