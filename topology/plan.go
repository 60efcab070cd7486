package topology

import "github.com/obinexus/blueshare/domain/mesh"

// BuildPlan lays out topology membership for the session as parent and
// adjacency tables. The plan is owned by the session; devices themselves
// carry no links.
//
//	star:   every non-host attaches to the first host
//	bus:    a daisy chain in registration order
//	mesh:   full adjacency between all devices
//	hybrid: hosts fully meshed, every other device attached to a host,
//	        spread round-robin
func BuildPlan(s *mesh.Session, t mesh.Topology) *mesh.TopologyPlan {
	plan := mesh.NewTopologyPlan(t)
	devices := s.Devices
	if len(devices) == 0 {
		return plan
	}

	var hosts []*mesh.Device
	for _, d := range devices {
		if d.Role == mesh.RoleHost {
			hosts = append(hosts, d)
		}
	}

	switch t {
	case mesh.TopologyStar:
		root := devices[0]
		if len(hosts) > 0 {
			root = hosts[0]
		}
		plan.Parent[root.ID] = ""
		for _, d := range devices {
			if d.ID != root.ID {
				plan.Parent[d.ID] = root.ID
			}
		}

	case mesh.TopologyBus:
		plan.Parent[devices[0].ID] = ""
		for i := 1; i < len(devices); i++ {
			plan.Parent[devices[i].ID] = devices[i-1].ID
			plan.AddLink(devices[i].ID, devices[i-1].ID)
		}

	case mesh.TopologyMesh:
		for i := range devices {
			plan.Parent[devices[i].ID] = ""
			for j := i + 1; j < len(devices); j++ {
				plan.AddLink(devices[i].ID, devices[j].ID)
			}
		}

	case mesh.TopologyHybrid:
		for i := range hosts {
			plan.Parent[hosts[i].ID] = ""
			for j := i + 1; j < len(hosts); j++ {
				plan.AddLink(hosts[i].ID, hosts[j].ID)
			}
		}
		if len(hosts) == 0 {
			return plan
		}
		next := 0
		for _, d := range devices {
			if d.Role == mesh.RoleHost {
				continue
			}
			plan.Parent[d.ID] = hosts[next%len(hosts)].ID
			next++
		}
	}

	return plan
}
