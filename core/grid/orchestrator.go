package grid

import (
	"math"
	"time"

	"github.com/kilianp07/microgrid/core/cost"
	"github.com/kilianp07/microgrid/core/logger"
	"github.com/kilianp07/microgrid/core/model"
	"github.com/kilianp07/microgrid/core/telemetry"
)

// Plant couples a generation unit with its inverter and optional co-located
// storage. Raw plant output always passes through the inverter before it
// reaches the grid bus.
type Plant struct {
	Unit     *model.GenerationUnit
	Inverter *model.GridConditioner
	BESS     *model.Battery
}

// EnvironmentDriver supplies one environmental sample per generator kind
// per tick.
type EnvironmentDriver interface {
	SunlightFactor(t time.Time) float64
	WindSpeed(t time.Time) float64
}

// FlowKey identifies one edge of the power-flow map.
type FlowKey struct {
	From string
	To   string
}

// ExternalImport records one tick's draw from the external grid.
type ExternalImport struct {
	PowerKW   float64
	Breakdown cost.Breakdown
	Time      time.Time
}

// TickResult summarizes one completed simulation step.
type TickResult struct {
	Time          time.Time
	DurationH     float64
	TotalSupplyKW float64
	TotalDemandKW float64
	// NetKW is the balance after generation and demand, before storage.
	NetKW float64
	// ResidualKW is what remained after storage arbitrage; negative values
	// were imported from the external grid.
	ResidualKW         float64
	ExternalImportKW   float64
	ExternalImportCost float64
	SupplyByPlant      map[string]float64
}

// Orchestrator drives the per-tick power balance: it queries live
// generation, sums demand, arbitrates storage in registration order and
// bills any shortfall to the external grid. All devices are owned
// exclusively by the orchestrator; mutation only happens inside
// SimulateStep.
type Orchestrator struct {
	topology *Topology
	routing  *RoutingPolicy
	costs    *cost.Model
	driver   EnvironmentDriver
	log      logger.Logger

	plants       []*Plant
	batteries    []*model.Battery
	substations  []*model.GridConditioner
	transformers []*model.GridConditioner
	houses       []*model.House
	industries   []*model.Industry
	fleet        *EVFleet

	supply map[string]float64
	flows  map[FlowKey]float64

	totalExternalCost   float64
	currentExternalCost float64
	lastImport          *ExternalImport
	simTime             time.Time
}

// NewOrchestrator builds an empty grid. Devices are registered afterwards;
// registration order is service order for storage arbitrage.
func NewOrchestrator(costs *cost.Model, driver EnvironmentDriver, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		topology: NewTopology(),
		routing:  NewRoutingPolicy(),
		costs:    costs,
		driver:   driver,
		log:      log,
		supply:   make(map[string]float64),
		flows:    make(map[FlowKey]float64),
	}
}

// Topology returns the owned connection table.
func (o *Orchestrator) Topology() *Topology { return o.topology }

// Routing returns the owned routing policy.
func (o *Orchestrator) Routing() *RoutingPolicy { return o.routing }

// AddPowerPlant registers a generation unit with its inverter and optional
// BESS, and enables the plant's edge to the grid bus.
func (o *Orchestrator) AddPowerPlant(p *Plant) {
	o.plants = append(o.plants, p)
	o.supply[p.Unit.ID] = 0
	if p.BESS != nil {
		o.batteries = append(o.batteries, p.BESS)
	}
	o.topology.AddConnection(p.Unit.ID, GridNodeID, true)
}

// AddGridBESS registers grid-level storage at the end of the service order.
func (o *Orchestrator) AddGridBESS(b *model.Battery) {
	o.batteries = append(o.batteries, b)
}

// AddSubstation registers a substation and its edge from the grid bus.
func (o *Orchestrator) AddSubstation(s *model.GridConditioner) {
	o.substations = append(o.substations, s)
	o.topology.AddConnection(GridNodeID, s.ID, true)
}

// AddTransformer registers a transformer downstream of every substation.
func (o *Orchestrator) AddTransformer(t *model.GridConditioner) {
	o.transformers = append(o.transformers, t)
	for _, s := range o.substations {
		o.topology.AddConnection(s.ID, t.ID, true)
	}
}

// SetConsumers registers the consumer population.
func (o *Orchestrator) SetConsumers(houses []*model.House, industries []*model.Industry) {
	o.houses = houses
	o.industries = industries
}

// SetFleet attaches the EV population and its charging stations.
func (o *Orchestrator) SetFleet(f *EVFleet) { o.fleet = f }

// Batteries returns the storage units in service order.
func (o *Orchestrator) Batteries() []*model.Battery { return o.batteries }

// TotalExternalCost returns the cumulative external-grid import cost.
func (o *Orchestrator) TotalExternalCost() float64 { return o.totalExternalCost }

// PowerFlows returns the informational flow map of the last tick.
func (o *Orchestrator) PowerFlows() map[FlowKey]float64 { return o.flows }

func (o *Orchestrator) driverValue(kind model.GeneratorKind, simTime time.Time) float64 {
	switch kind {
	case model.GeneratorSolar:
		return o.driver.SunlightFactor(simTime)
	case model.GeneratorWind:
		return o.driver.WindSpeed(simTime)
	default:
		return 0
	}
}

// SimulateStep advances the grid by one tick. It never fails under normal
// numeric inputs; configuration errors are rejected at assembly time.
func (o *Orchestrator) SimulateStep(simTime time.Time, durationH float64) TickResult {
	o.simTime = simTime
	for id := range o.supply {
		o.supply[id] = 0
	}
	totalSupply := 0.0

	totalDemand := o.sumDemand(simTime)

	// Connectivity is re-evaluated fresh each tick so control-channel
	// changes take effect at the next boundary.
	for _, p := range o.plants {
		if !o.topology.IsConnected(p.Unit.ID, GridNodeID) {
			continue
		}
		raw, err := p.Unit.Generate(o.driverValue(p.Unit.Kind, simTime), simTime)
		if err != nil {
			o.log.Errorf("plant %s: %v", p.Unit.ID, err)
			continue
		}
		out := p.Inverter.TransferPower(&raw, simTime)
		if out == nil {
			continue
		}
		o.supply[p.Unit.ID] = *out
		totalSupply += *out
	}

	// Substation losses apply before transformer losses; multiple units of
	// either kind compound multiplicatively.
	for _, s := range o.substations {
		totalSupply = o.condition(s, totalSupply, simTime)
	}
	for _, tr := range o.transformers {
		totalSupply = o.condition(tr, totalSupply, simTime)
	}

	net := totalSupply - totalDemand
	residual := o.arbitrateStorage(net, durationH, simTime)

	o.currentExternalCost = 0
	o.lastImport = nil
	importKW := 0.0
	if residual < 0 {
		importKW = -residual
		breakdown := o.costs.ExternalGrid(importKW, simTime)
		o.currentExternalCost = breakdown.TotalCost
		o.totalExternalCost += breakdown.TotalCost
		o.lastImport = &ExternalImport{PowerKW: importKW, Breakdown: breakdown, Time: simTime}
		o.log.Debugw("external grid import", map[string]any{
			"power_kw": importKW,
			"cost":     breakdown.TotalCost,
		})
	}

	o.routeToConsumers()

	return TickResult{
		Time:               simTime,
		DurationH:          durationH,
		TotalSupplyKW:      totalSupply,
		TotalDemandKW:      totalDemand,
		NetKW:              net,
		ResidualKW:         residual,
		ExternalImportKW:   importKW,
		ExternalImportCost: o.currentExternalCost,
		SupplyByPlant:      o.supplyCopy(),
	}
}

// condition passes the bus total through one conditioner and scales the
// per-plant attribution by the same loss factor.
func (o *Orchestrator) condition(c *model.GridConditioner, totalSupply float64, simTime time.Time) float64 {
	out := c.TransferPower(&totalSupply, simTime)
	for id := range o.supply {
		o.supply[id] *= c.Efficiency
	}
	if out == nil {
		return 0
	}
	return *out
}

// sumDemand evaluates consumer demand in the fixed order: houses,
// industries, stations, then connected vehicles.
func (o *Orchestrator) sumDemand(simTime time.Time) float64 {
	total := 0.0
	for _, h := range o.houses {
		total += h.Demand(simTime)
	}
	for _, i := range o.industries {
		total += i.Demand(simTime)
	}
	if o.fleet != nil {
		for _, s := range o.fleet.Stations() {
			total += s.Demand(simTime)
		}
		for _, ev := range o.fleet.Connected() {
			total += ev.Demand(simTime)
		}
	}
	return total
}

// arbitrateStorage drives every battery in registration order: surplus
// charges, shortfall discharges, each bounded by the battery's power limit
// and by what its capacity can absorb or deliver within the tick. Service
// is strictly first come first served.
func (o *Orchestrator) arbitrateStorage(net, durationH float64, simTime time.Time) float64 {
	for _, b := range o.batteries {
		if net > 0 && b.SOC < 100 {
			headroom := (b.CapacityKWh() - b.RemainingKWh) / durationH
			power := min(net, b.MaxChargePowerKW(), headroom)
			b.Charge(power, durationH, simTime)
			net -= power
		} else if net < 0 && b.SOC > 0 {
			deliverable := b.RemainingKWh / durationH
			power := min(-net, b.MaxDischargePowerKW(), deliverable)
			b.Discharge(power, durationH, simTime)
			net += power
		}
		b.AccrueStorageCost(durationH, simTime)
	}
	return net
}

// routeToConsumers rebuilds the informational flow map from the current
// per-plant supply and the routing fractions. Flows from the grid bus to
// consumer classes require an enabled bus-to-substation edge.
func (o *Orchestrator) routeToConsumers() {
	o.flows = make(map[FlowKey]float64)
	routing := o.routing.Routing()

	busConnected := len(o.substations) == 0
	for _, s := range o.substations {
		if o.topology.IsConnected(GridNodeID, s.ID) {
			busConnected = true
			break
		}
	}

	solar, wind := 0.0, 0.0
	for _, p := range o.plants {
		out := o.supply[p.Unit.ID]
		if out <= 0 {
			continue
		}
		o.flows[FlowKey{From: p.Unit.ID, To: GridNodeID}] = out
		switch p.Unit.Kind {
		case model.GeneratorSolar:
			solar += out
		case model.GeneratorWind:
			wind += out
		}
	}
	if !busConnected {
		return
	}
	if solar > 0 {
		o.flows[FlowKey{From: GridNodeID, To: "Houses"}] += solar * routing["solar_to_houses"]
		o.flows[FlowKey{From: GridNodeID, To: "Industries"}] += solar * routing["solar_to_industries"]
		o.flows[FlowKey{From: GridNodeID, To: "Stations"}] += solar * routing["solar_to_stations"]
	}
	if wind > 0 {
		o.flows[FlowKey{From: GridNodeID, To: "Houses"}] += wind * routing["wind_to_houses"]
		o.flows[FlowKey{From: GridNodeID, To: "Industries"}] += wind * routing["wind_to_industries"]
		o.flows[FlowKey{From: GridNodeID, To: "Stations"}] += wind * routing["wind_to_stations"]
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (o *Orchestrator) supplyCopy() map[string]float64 {
	out := make(map[string]float64, len(o.supply))
	for id, v := range o.supply {
		out[id] = v
	}
	return out
}

// ChargeConnectedEVs charges every plugged-in vehicle with its current
// demand, after the grid balance for the tick is settled.
func (o *Orchestrator) ChargeConnectedEVs(simTime time.Time, durationH float64) {
	if o.fleet == nil {
		return
	}
	for _, s := range o.fleet.Stations() {
		for _, ev := range s.ConnectedEVs() {
			ev.ChargeBattery(simTime, durationH)
		}
	}
}

// Snapshots collects one state record per device, in the fixed publish
// order, plus the external-grid import record when the last tick drew from
// it.
func (o *Orchestrator) Snapshots() []telemetry.Snapshot {
	var snaps []telemetry.Snapshot
	for _, p := range o.plants {
		snaps = append(snaps, p.Unit.Snapshot())
	}
	for _, b := range o.batteries {
		snaps = append(snaps, b.Snapshot())
	}
	for _, p := range o.plants {
		snaps = append(snaps, p.Inverter.Snapshot())
	}
	for _, s := range o.substations {
		snaps = append(snaps, s.Snapshot())
	}
	for _, tr := range o.transformers {
		snaps = append(snaps, tr.Snapshot())
	}
	for _, h := range o.houses {
		snaps = append(snaps, h.Snapshot())
	}
	for _, i := range o.industries {
		snaps = append(snaps, i.Snapshot())
	}
	if o.fleet != nil {
		for _, s := range o.fleet.Stations() {
			snaps = append(snaps, s.Snapshot())
		}
		for _, ev := range append(append([]*model.EV(nil), o.fleet.Available()...), o.fleet.Connected()...) {
			snaps = append(snaps, ev.Snapshot())
			snaps = append(snaps, ev.Battery.Snapshot())
		}
	}
	if o.lastImport != nil {
		snaps = append(snaps, o.externalImportSnapshot())
	}
	return snaps
}

func (o *Orchestrator) externalImportSnapshot() telemetry.Snapshot {
	imp := o.lastImport
	return telemetry.Snapshot{
		DeviceID:      "external_grid",
		Class:         telemetry.ClassGrid,
		SimulatedTime: telemetry.FormatSimTime(imp.Time),
		Fields: map[string]any{
			"power_imported_kw":            imp.PowerKW,
			"current_operation_cost_inr":   imp.Breakdown.TotalCost,
			"total_external_grid_cost_inr": round2(o.totalExternalCost),
			"base_cost_per_kwh":            imp.Breakdown.BaseRatePerKWh,
			"time_multiplier":              imp.Breakdown.TimeMultiplier,
			"seasonal_multiplier":          imp.Breakdown.SeasonalMultiplier,
			"final_cost_per_kwh":           imp.Breakdown.FinalRatePerKWh,
			"currency":                     imp.Breakdown.Currency,
			"operation_type":               "external_grid_import",
		},
	}
}
