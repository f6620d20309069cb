package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dripwatch/dripwatch/internal/domain/bed"
	"github.com/dripwatch/dripwatch/internal/domain/drip"
)

// Topic scheme: dripwatch/beds/<bed-id>/weight with a JSON payload of
// both scale readings in grams.
const weightTopic = "dripwatch/beds/+/weight"

type weightPayload struct {
	InitialWeightG float64 `json:"initial_weight_g"`
	CurrentWeightG float64 `json:"current_weight_g"`
}

// TelemetrySink receives weight readings parsed off the broker. The bed
// service satisfies this.
type TelemetrySink interface {
	ApplyTelemetry(ctx context.Context, id uuid.UUID, initialWeightG, currentWeightG float64, now time.Time) (*bed.Bed, drip.Status, drip.Status, error)
}

type Config struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
}

// Bridge subscribes to the weight topic and feeds readings into the bed
// service, as an alternative ingress to the HTTP device endpoints.
type Bridge struct {
	client pahomqtt.Client
	beds   TelemetrySink
	log    zerolog.Logger
}

func NewBridge(cfg Config, beds TelemetrySink, log zerolog.Logger) *Bridge {
	b := &Bridge{beds: beds, log: log.With().Str("component", "mqtt").Logger()}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(c pahomqtt.Client) {
		b.log.Info().Str("topic", weightTopic).Msg("connected, subscribing")
		token := c.Subscribe(weightTopic, 1, b.handleMessage)
		token.Wait()
		if err := token.Error(); err != nil {
			b.log.Error().Err(err).Msg("subscribe failed")
		}
	}
	opts.OnConnectionLost = func(c pahomqtt.Client, err error) {
		b.log.Warn().Err(err).Msg("connection lost")
	}

	b.client = pahomqtt.NewClient(opts)
	return b
}

// Connect dials the broker. A failure here disables the bridge but is
// not fatal to the server; devices can still report over HTTP.
func (b *Bridge) Connect() error {
	token := b.client.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect mqtt broker: %w", err)
	}
	return nil
}

func (b *Bridge) Close() {
	b.client.Disconnect(250)
}

func (b *Bridge) handleMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	bedID, err := bedIDFromTopic(msg.Topic())
	if err != nil {
		b.log.Warn().Str("topic", msg.Topic()).Err(err).Msg("bad topic")
		return
	}

	var p weightPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		b.log.Warn().Str("topic", msg.Topic()).Err(err).Msg("bad payload")
		return
	}
	if p.InitialWeightG < 0 || p.CurrentWeightG < 0 {
		b.log.Warn().Str("bed_id", bedID.String()).Msg("negative weight reading dropped")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, oldStatus, newStatus, err := b.beds.ApplyTelemetry(ctx, bedID, p.InitialWeightG, p.CurrentWeightG, time.Now().UTC())
	if err != nil {
		b.log.Error().Str("bed_id", bedID.String()).Err(err).Msg("apply telemetry")
		return
	}
	if oldStatus != newStatus {
		b.log.Info().
			Str("bed_id", bedID.String()).
			Str("from", string(oldStatus)).
			Str("to", string(newStatus)).
			Msg("drip status changed")
	}
}

func bedIDFromTopic(topic string) (uuid.UUID, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "dripwatch" || parts[1] != "beds" || parts[3] != "weight" {
		return uuid.Nil, fmt.Errorf("unexpected topic shape: %s", topic)
	}
	return uuid.Parse(parts[2])
}
