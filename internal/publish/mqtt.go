package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"plant_monitor/internal/config"
	"plant_monitor/internal/logger"
	"plant_monitor/internal/models"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttConnectRetries = 5
	mqttPublishTimeout = 5 * time.Second
	mqttQuiesceMs      = 250
)

// mqttClient is the part of mqtt.Client the publisher needs.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes each snapshot as JSON to <prefix>/<plant_id>/snapshot.
type MQTT struct {
	client mqttClient
	prefix string
	qos    byte
}

// DialMQTT connects to the broker, retrying with exponential backoff.
func DialMQTT(ctx context.Context, cfg config.MQTTConfig, log *logger.Logger) (*MQTT, error) {
	if log == nil {
		log = logger.Nop()
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second

	var client mqtt.Client
	err := backoff.Retry(func() error {
		client = mqtt.NewClient(opts)
		if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
			log.Warnw("mqtt_connect_failed", "broker", cfg.Broker, "err", tok.Error())
			return tok.Error()
		}
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, mqttConnectRetries-1), ctx))
	if err != nil {
		return nil, fmt.Errorf("connect mqtt broker %s: %w", cfg.Broker, err)
	}
	log.Infow("mqtt_connected", "broker", cfg.Broker)

	return newMQTT(client, cfg.TopicPrefix, cfg.QoS), nil
}

func newMQTT(c mqttClient, prefix string, qos byte) *MQTT {
	if qos > 2 {
		qos = 1
	}
	return &MQTT{client: c, prefix: prefix, qos: qos}
}

func (m *MQTT) Name() string { return "mqtt" }

// Topic returns the topic snapshots for plantID are published on.
func (m *MQTT) Topic(plantID string) string {
	if m.prefix == "" {
		return plantID + "/snapshot"
	}
	return m.prefix + "/" + plantID + "/snapshot"
}

func (m *MQTT) Publish(ctx context.Context, s models.Snapshot) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tok := m.client.Publish(m.Topic(s.PlantID), m.qos, false, payload)

	timeout := mqttPublishTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	if !tok.WaitTimeout(timeout) {
		return fmt.Errorf("mqtt publish: timed out after %s", timeout)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

func (m *MQTT) Close() error {
	m.client.Disconnect(mqttQuiesceMs)
	return nil
}
