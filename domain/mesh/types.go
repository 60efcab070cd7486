package mesh

// ConsentState is the trinary outcome of a device's local admission decision.
// A fourth "channel clear" signal exists in the upstream radio protocol but
// never participates in consensus arithmetic, so it is not modeled here.
type ConsentState string

const (
	ConsentAccept    ConsentState = "accept"
	ConsentReject    ConsentState = "reject"
	ConsentAmbiguous ConsentState = "ambiguous"
)

// Topology is the network shape chosen for a session.
type Topology string

const (
	TopologyStar   Topology = "star"
	TopologyBus    Topology = "bus"
	TopologyMesh   Topology = "mesh"
	TopologyHybrid Topology = "hybrid"
)

// DeviceRole describes what a device contributes to the network.
type DeviceRole string

const (
	RoleHost     DeviceRole = "host"
	RoleClient   DeviceRole = "client"
	RoleRelay    DeviceRole = "relay"
	RoleObserver DeviceRole = "observer"
)

// PaymentState tracks a payment record through settlement.
type PaymentState string

const (
	PaymentPending    PaymentState = "pending"
	PaymentAuthorized PaymentState = "authorized"
	PaymentProcessing PaymentState = "processing"
	PaymentSettled    PaymentState = "settled"
	PaymentFailed     PaymentState = "failed"
)
