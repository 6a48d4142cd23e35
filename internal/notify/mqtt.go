package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/medtrack/biomed-maintenance/internal/models"
)

// DefaultTopic is where upcoming-maintenance notifications are published.
const DefaultTopic = "biomed/maintenance/upcoming"

// MQTTSink publishes notification requests to an MQTT broker as JSON.
type MQTTSink struct {
	client mqtt.Client
	topic  string
}

// NewMQTTSink connects to the broker configured by MQTT_BROKER (default
// tcp://mosquitto:1883) and returns a ready sink.
func NewMQTTSink() (*MQTTSink, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" {
		broker = "tcp://mosquitto:1883"
	}
	clientID := os.Getenv("MQTT_CLIENT_ID")
	if clientID == "" {
		clientID = "biomed-sweeper"
	}
	topic := os.Getenv("MQTT_TOPIC")
	if topic == "" {
		topic = DefaultTopic
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout to %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect error: %w", err)
	}

	return &MQTTSink{client: client, topic: topic}, nil
}

// Publish sends one notification request to the broker at QoS 1.
func (s *MQTTSink) Publish(ctx context.Context, request models.NotificationRequest) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	token := s.client.Publish(s.topic, 1, false, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker, allowing in-flight work to drain.
func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
