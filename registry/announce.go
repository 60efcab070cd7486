package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/obinexus/blueshare/domain/mesh"
)

// Announcement is the descriptor a device publishes while it is
// discoverable. It carries everything the pipeline needs to build a Device
// record.
type Announcement struct {
	Name          string          `json:"name"`
	Role          mesh.DeviceRole `json:"role"`
	RSSI          int             `json:"rssi"`
	MTU           int             `json:"mtu,omitempty"`
	BandwidthMbps float64         `json:"bandwidth_mbps,omitempty"`
	BytesSent     uint64          `json:"bytes_sent,omitempty"`
	BytesReceived uint64          `json:"bytes_received,omitempty"`
}

// Device materializes the announcement as a registered device.
func (a Announcement) Device() (*mesh.Device, error) {
	d, err := mesh.NewDevice(a.Name, a.Role, a.RSSI)
	if err != nil {
		return nil, err
	}
	if a.MTU > 0 {
		d.MTU = a.MTU
	}
	d.BandwidthMbps = a.BandwidthMbps
	d.BytesSent = a.BytesSent
	d.BytesReceived = a.BytesReceived
	return d, nil
}

// Announcer publishes this device's announcement on a localhost port and
// scans the rest of the range for peers. Discovered announcements arrive on
// Entries.
type Announcer struct {
	Entries chan Announcement

	port      uint16
	startPort uint16
	endPort   uint16
	attempts  uint
	server    *http.Server
}

type option func(Announcer) Announcer

// WithPortRange restricts the ports the announcer binds and scans.
func WithPortRange(startPort, endPort uint16) option {
	return func(a Announcer) Announcer {
		a.startPort = startPort
		a.endPort = endPort
		return a
	}
}

// WithAttempts sets how many scan passes are made, one second apart.
func WithAttempts(attempts uint) option {
	return func(a Announcer) Announcer {
		a.attempts = attempts
		return a
	}
}

type handler struct {
	payload []byte
}

func (h handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(h.payload); err != nil {
		panic(err)
	}
}

// Announce starts publishing the descriptor and scanning for peers.
func Announce(self Announcement, opts ...option) (*Announcer, error) {
	a := Announcer{
		Entries:   make(chan Announcement),
		startPort: 9000,
		endPort:   9010,
		attempts:  1,
	}
	for _, opt := range opts {
		a = opt(a)
	}

	payload, err := json.Marshal(self)
	if err != nil {
		return nil, err
	}

	var l net.Listener
	for port := a.startPort; port <= a.endPort; port++ {
		l, err = net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			a.port = port
			break
		}
	}
	if l == nil {
		return nil, fmt.Errorf("no free port in [%d, %d]: %w", a.startPort, a.endPort, err)
	}

	a.server = &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", a.port),
		Handler: handler{payload: payload},
	}
	go func() {
		if err := a.server.Serve(l); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	go func() {
		for range a.attempts {
			a.search()
			time.Sleep(time.Second)
		}
	}()
	return &a, nil
}

func (a *Announcer) search() {
	for port := a.startPort; port <= a.endPort; port++ {
		if port == a.port {
			continue
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d", port))
		if err != nil {
			continue
		}
		var ann Announcement
		err = json.NewDecoder(resp.Body).Decode(&ann)
		resp.Body.Close()
		if err != nil {
			continue
		}
		a.Entries <- ann
	}
}

// Close stops publishing.
func (a *Announcer) Close() error {
	return a.server.Shutdown(context.Background())
}
