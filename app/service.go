package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/microgrid/config"
	"github.com/kilianp07/microgrid/core/cost"
	"github.com/kilianp07/microgrid/core/env"
	"github.com/kilianp07/microgrid/core/grid"
	"github.com/kilianp07/microgrid/core/model"
	coretelemetry "github.com/kilianp07/microgrid/core/telemetry"
	"github.com/kilianp07/microgrid/infra/logger"
	"github.com/kilianp07/microgrid/infra/metrics"
	"github.com/kilianp07/microgrid/infra/telemetry"
	"github.com/kilianp07/microgrid/internal/eventbus"
)

// Service owns the assembled grid and drives the simulation loop.
type Service struct {
	cfg   *config.Config
	orch  *grid.Orchestrator
	fleet *grid.EVFleet
	bus   *eventbus.Bus[eventbus.ControlEvent]
	sink  coretelemetry.Sink
	prom  *metrics.PromSink
	log   logger.Logger
}

// New assembles the grid and its sinks from the configuration.
func New(cfg *config.Config) (*Service, error) {
	log := logger.New("service")
	costs := cost.NewModel(cfg.Tariff)
	driver := env.NewWeatherModel(cfg.Sim.Seed)
	orch := grid.NewOrchestrator(costs, driver, log)

	for _, pc := range cfg.Grid.Plants {
		var unit *model.GenerationUnit
		switch pc.Kind {
		case "solar":
			unit = model.NewSolarPlant(pc.ID, pc.CapacityKW, costs)
		case "wind":
			unit = model.NewWindPlant(pc.ID, pc.CapacityKW, costs)
		default:
			return nil, fmt.Errorf("plant %s: unknown kind %q", pc.ID, pc.Kind)
		}
		inv, err := model.NewInverter("INV_"+pc.ID, pc.InverterEfficiency, pc.ID, grid.GridNodeID, costs)
		if err != nil {
			return nil, fmt.Errorf("plant %s: %w", pc.ID, err)
		}
		var bess *model.Battery
		if pc.BESS != nil {
			bess = model.NewPlantBESS(pc.ID, *pc.BESS, costs)
		}
		orch.AddPowerPlant(&grid.Plant{Unit: unit, Inverter: inv, BESS: bess})
	}
	if cfg.Grid.GridBESS != nil {
		orch.AddGridBESS(model.NewGridBESS(*cfg.Grid.GridBESS, costs))
	}
	for _, sc := range cfg.Grid.Substations {
		sub, err := model.NewSubstation(sc.ID, sc.Efficiency, grid.GridNodeID, "distribution", costs)
		if err != nil {
			return nil, fmt.Errorf("substation %s: %w", sc.ID, err)
		}
		orch.AddSubstation(sub)
	}
	for _, tc := range cfg.Grid.Transformers {
		tr, err := model.NewTransformer(tc.ID, tc.Efficiency, "distribution", "feeder", costs)
		if err != nil {
			return nil, fmt.Errorf("transformer %s: %w", tc.ID, err)
		}
		orch.AddTransformer(tr)
	}

	houses := make([]*model.House, 0, cfg.Grid.Houses)
	for i := 1; i <= cfg.Grid.Houses; i++ {
		id := fmt.Sprintf("House%d", i)
		houses = append(houses, model.NewHouse(id, model.HouseDemandProfile(), 3, nil, 0.95, 230, costs))
	}
	industries := make([]*model.Industry, 0, cfg.Grid.Industries)
	for i := 1; i <= cfg.Grid.Industries; i++ {
		id := fmt.Sprintf("Industry%d", i)
		shifts := []model.Shift{{StartHour: 8, EndHour: 18}}
		industries = append(industries, model.NewIndustry(id, "manufacturing", model.IndustryDemandProfile(), shifts, nil, 0.92, 11000, costs))
	}
	orch.SetConsumers(houses, industries)

	stations := make([]*model.ChargingStation, 0, cfg.Grid.Stations)
	for i := 1; i <= cfg.Grid.Stations; i++ {
		id := fmt.Sprintf("Station%d", i)
		stations = append(stations, model.NewChargingStation(id, model.StationDemandProfile(), cfg.Grid.StationPorts, cfg.Grid.StationMaxPowerKW, 0.95, 400, costs))
	}
	evs := make([]*model.EV, 0, cfg.Grid.EVs)
	for i := 1; i <= cfg.Grid.EVs; i++ {
		id := fmt.Sprintf("EV%d", i)
		battery := model.NewEVBattery(id, cfg.Grid.EVBattery, costs)
		evs = append(evs, model.NewEV(id, model.EVDemandProfile(), battery, 0.95, 400, costs))
	}
	fleetCfg := cfg.Grid.Fleet
	if fleetCfg.Seed == 0 {
		fleetCfg.Seed = cfg.Sim.Seed
	}
	fleet := grid.NewEVFleet(fleetCfg, evs, stations)
	fleet.SeedConnections(cfg.Grid.InitialConnectedEVs)
	orch.SetFleet(fleet)

	bus := eventbus.New[eventbus.ControlEvent]()

	var sinks []coretelemetry.Sink
	if cfg.MQTT.Broker != "" {
		mqttSink, err := telemetry.NewMQTTSink(cfg.MQTT, bus)
		if err != nil {
			return nil, fmt.Errorf("mqtt sink: %w", err)
		}
		sinks = append(sinks, mqttSink)
	}
	if cfg.Influx.Enabled {
		sinks = append(sinks, telemetry.NewInfluxSinkWithFallback(cfg.Influx))
	}
	var sink coretelemetry.Sink = coretelemetry.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = telemetry.NewMultiSink(sinks...)
	}

	var prom *metrics.PromSink
	if cfg.Metrics.Enabled {
		var err error
		prom, err = metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
	}

	return &Service{cfg: cfg, orch: orch, fleet: fleet, bus: bus, sink: sink, prom: prom, log: log}, nil
}

// Orchestrator exposes the assembled grid, mainly for tests and the CLI.
func (s *Service) Orchestrator() *grid.Orchestrator { return s.orch }

// Run executes the configured horizon and blocks until done or until the
// context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.prom != nil {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.Addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	_, err := s.RunSteps(ctx, s.cfg.Sim.TotalSteps())
	return err
}

// RunSteps advances the simulation by the given number of ticks and returns
// the last tick's result.
func (s *Service) RunSteps(ctx context.Context, steps int) (grid.TickResult, error) {
	events := make(map[int][]config.GridEvent)
	for _, e := range s.cfg.Sim.Events {
		events[e.AtStep] = append(events[e.AtStep], e)
	}
	ctrl := s.bus.Subscribe()
	defer s.bus.Unsubscribe(ctrl)

	simTime := s.cfg.Sim.Start()
	durH := s.cfg.Sim.StepHours()
	pacing := s.cfg.Sim.Pacing()

	var last grid.TickResult
	for step := 1; step <= steps; step++ {
		if err := ctx.Err(); err != nil {
			return last, nil
		}
		s.drainControl(ctrl)

		s.fleet.Step(simTime)
		last = s.orch.SimulateStep(simTime, durH)
		s.orch.ChargeConnectedEVs(simTime, durH)

		for _, e := range events[step] {
			s.applyTopologyChange(e.Source, e.Target, e.Enable)
		}

		if s.prom != nil {
			s.prom.Observe(last, s.orch.Batteries())
		}
		if step%s.cfg.Sim.PublishEveryTicks == 0 {
			for _, snap := range s.orch.Snapshots() {
				if err := s.sink.Record(snap); err != nil {
					s.log.Errorf("publish %s: %v", snap.DeviceID, err)
				}
			}
		}
		s.log.Debugw("tick complete", map[string]any{
			"step":      step,
			"sim_time":  coretelemetry.FormatSimTime(simTime),
			"supply_kw": last.TotalSupplyKW,
			"demand_kw": last.TotalDemandKW,
			"import_kw": last.ExternalImportKW,
		})

		simTime = simTime.Add(s.cfg.Sim.Step())
		if pacing > 0 {
			select {
			case <-ctx.Done():
				return last, nil
			case <-time.After(pacing):
			}
		}
	}
	s.log.Infof("simulation finished: %d steps, external grid cost %.2f %s",
		steps, s.orch.TotalExternalCost(), s.cfg.Tariff.Currency)
	return last, nil
}

// drainControl applies every pending operator command before the next tick.
func (s *Service) drainControl(ctrl <-chan eventbus.ControlEvent) {
	for {
		select {
		case e, ok := <-ctrl:
			if !ok {
				return
			}
			switch cmd := e.(type) {
			case eventbus.RoutingUpdate:
				s.orch.Routing().Update(cmd.Fractions)
				s.log.Infof("routing updated: %d fractions", len(cmd.Fractions))
			case eventbus.TopologyCommand:
				s.applyTopologyChange(cmd.Source, cmd.Target, cmd.Enable)
			}
		default:
			return
		}
	}
}

func (s *Service) applyTopologyChange(source, target string, enable bool) {
	if enable {
		s.orch.Topology().Enable(source, target)
	} else {
		s.orch.Topology().Disable(source, target)
	}
	s.log.Infof("topology edge %s -> %s set to %v", source, target, enable)
}

// Close releases transports.
func (s *Service) Close() error {
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
