package eventbus

// ControlEvent is a command pushed by an operator over the control
// channel. Events are applied between ticks, never mid-tick.
type ControlEvent interface{ isControlEvent() }

// RoutingUpdate carries a partial routing-fraction table. Absent keys keep
// their current values.
type RoutingUpdate struct {
	Fractions map[string]float64 `json:"fractions"`
}

func (RoutingUpdate) isControlEvent() {}

// TopologyCommand flips one directed topology edge.
type TopologyCommand struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Enable bool   `json:"enable"`
}

func (TopologyCommand) isControlEvent() {}
