package grid

import "testing"

func TestTopologyDefaultsToDisconnected(t *testing.T) {
	topo := NewTopology()
	if topo.IsConnected("SolarFarm", GridNodeID) {
		t.Fatalf("edge should not exist before AddConnection")
	}
}

func TestTopologyEnableDisable(t *testing.T) {
	topo := NewTopology()
	topo.AddConnection("SolarFarm", GridNodeID, true)

	if !topo.IsConnected("SolarFarm", GridNodeID) {
		t.Fatalf("edge should be enabled after AddConnection(true)")
	}

	topo.Disable("SolarFarm", GridNodeID)
	if topo.IsConnected("SolarFarm", GridNodeID) {
		t.Fatalf("edge should be disabled after Disable")
	}

	topo.Enable("SolarFarm", GridNodeID)
	if !topo.IsConnected("SolarFarm", GridNodeID) {
		t.Fatalf("edge should be enabled after Enable")
	}
}

func TestTopologyEdgesAreDirected(t *testing.T) {
	topo := NewTopology()
	topo.AddConnection("SolarFarm", GridNodeID, true)

	if topo.IsConnected(GridNodeID, "SolarFarm") {
		t.Fatalf("reverse edge should not exist")
	}
}

func TestTopologyUnknownEdgeMutationIsNoop(t *testing.T) {
	topo := NewTopology()
	topo.Enable("ghost", "node")
	topo.Disable("ghost", "node")

	if topo.IsConnected("ghost", "node") {
		t.Fatalf("mutating an unknown edge must not create it")
	}
	if got := len(topo.ActiveConnections()); got != 0 {
		t.Fatalf("expected no active connections, got %d", got)
	}
}

func TestTopologyActiveConnections(t *testing.T) {
	topo := NewTopology()
	topo.AddConnection("SolarFarm", GridNodeID, true)
	topo.AddConnection("WindFarm", GridNodeID, true)
	topo.AddConnection(GridNodeID, "Substation1", false)

	active := topo.ActiveConnections()
	if len(active) != 2 {
		t.Fatalf("expected 2 active edges, got %d", len(active))
	}
	for _, e := range active {
		if !e.Enabled {
			t.Fatalf("ActiveConnections returned a disabled edge: %+v", e)
		}
	}
}
