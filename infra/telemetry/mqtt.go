package telemetry

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	coretelemetry "github.com/kilianp07/microgrid/core/telemetry"
	"github.com/kilianp07/microgrid/infra/logger"
	"github.com/kilianp07/microgrid/internal/eventbus"
)

// MQTTConfig defines the connection parameters for the Paho MQTT client.
type MQTTConfig struct {
	Broker     string `json:"broker"`
	ClientID   string `json:"client_id"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	UseTLS     bool   `json:"use_tls"`
	ClientCert string `json:"client_cert"`
	ClientKey  string `json:"client_key"`
	CABundle   string `json:"ca_bundle"`
	QoS        byte   `json:"qos"`
	Retain     bool   `json:"retain"`
	// RoutingTopic and TopologyTopic are the control-plane subscriptions.
	RoutingTopic  string `json:"routing_topic"`
	TopologyTopic string `json:"topology_topic"`
}

// SetDefaults fills the stock topics and a unique client identifier.
func (c *MQTTConfig) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "microgrid-sim-" + uuid.NewString()[:8]
	}
	if c.RoutingTopic == "" {
		c.RoutingTopic = "microgrid/control/routing"
	}
	if c.TopologyTopic == "" {
		c.TopologyTopic = "microgrid/control/topology"
	}
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c MQTTConfig) LoadTLSConfig() (*tls.Config, error) {
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

// MQTTSink publishes device snapshots to an MQTT broker, one retained-or-not
// message per device on <class>/<device_id>/state. When a control bus is
// provided it also subscribes to the routing and topology command topics and
// forwards decoded commands to the bus.
type MQTTSink struct {
	cli    paho.Client
	cfg    MQTTConfig
	bus    *eventbus.Bus[eventbus.ControlEvent]
	logger logger.Logger
}

// NewMQTTSink connects to the broker. The bus may be nil for publish-only
// operation.
func NewMQTTSink(cfg MQTTConfig, bus *eventbus.Bus[eventbus.ControlEvent]) (*MQTTSink, error) {
	cfg.SetDefaults()
	log := logger.New("mqtt_sink")
	s := &MQTTSink{cfg: cfg, bus: bus, logger: log}

	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		if s.bus == nil {
			return
		}
		if token := c.Subscribe(cfg.RoutingTopic, cfg.QoS, s.onRoutingUpdate); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe %s: %v", cfg.RoutingTopic, token.Error())
		}
		if token := c.Subscribe(cfg.TopologyTopic, cfg.QoS, s.onTopologyCommand); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe %s: %v", cfg.TopologyTopic, token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	s.cli = cli
	return s, nil
}

// Record publishes one snapshot as JSON.
func (s *MQTTSink) Record(snap coretelemetry.Snapshot) error {
	payload, err := json.Marshal(snap.Record())
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", snap.DeviceID, err)
	}
	topic := fmt.Sprintf("%s/%s/state", snap.Class, snap.DeviceID)
	token := s.cli.Publish(topic, s.cfg.QoS, s.cfg.Retain, payload)
	if ok := token.WaitTimeout(5 * time.Second); !ok {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	return token.Error()
}

func (s *MQTTSink) onRoutingUpdate(_ paho.Client, msg paho.Message) {
	var update eventbus.RoutingUpdate
	if err := json.Unmarshal(msg.Payload(), &update); err != nil {
		s.logger.Errorf("decode routing update: %v", err)
		return
	}
	s.bus.Publish(update)
}

func (s *MQTTSink) onTopologyCommand(_ paho.Client, msg paho.Message) {
	var cmd eventbus.TopologyCommand
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		s.logger.Errorf("decode topology command: %v", err)
		return
	}
	if cmd.Source == "" || cmd.Target == "" {
		s.logger.Warnf("topology command missing source or target, dropped")
		return
	}
	s.bus.Publish(cmd)
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() {
	if s.cli != nil && s.cli.IsConnected() {
		s.cli.Disconnect(250)
	}
}
