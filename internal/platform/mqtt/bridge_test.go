package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dripwatch/dripwatch/internal/domain/bed"
	"github.com/dripwatch/dripwatch/internal/domain/drip"
)

type fakeSink struct {
	calls []struct {
		id               uuid.UUID
		initial, current float64
	}
}

func (f *fakeSink) ApplyTelemetry(ctx context.Context, id uuid.UUID, initialWeightG, currentWeightG float64, now time.Time) (*bed.Bed, drip.Status, drip.Status, error) {
	f.calls = append(f.calls, struct {
		id               uuid.UUID
		initial, current float64
	}{id, initialWeightG, currentWeightG})
	return &bed.Bed{ID: id}, drip.StatusEmAndamento, drip.StatusAlerta, nil
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 1 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func TestBedIDFromTopic(t *testing.T) {
	id := uuid.New()
	got, err := bedIDFromTopic("dripwatch/beds/" + id.String() + "/weight")
	if err != nil {
		t.Fatalf("bedIDFromTopic: %v", err)
	}
	if got != id {
		t.Errorf("got %s, want %s", got, id)
	}

	bad := []string{
		"dripwatch/beds/weight",
		"other/beds/" + id.String() + "/weight",
		"dripwatch/beds/not-a-uuid/weight",
		"dripwatch/beds/" + id.String() + "/status",
	}
	for _, topic := range bad {
		if _, err := bedIDFromTopic(topic); err == nil {
			t.Errorf("topic %q accepted", topic)
		}
	}
}

func TestHandleMessage(t *testing.T) {
	sink := &fakeSink{}
	b := &Bridge{beds: sink, log: zerolog.Nop()}
	id := uuid.New()

	b.handleMessage(nil, &fakeMessage{
		topic:   "dripwatch/beds/" + id.String() + "/weight",
		payload: []byte(`{"initial_weight_g":500,"current_weight_g":120}`),
	})

	if len(sink.calls) != 1 {
		t.Fatalf("sink calls = %d, want 1", len(sink.calls))
	}
	call := sink.calls[0]
	if call.id != id || call.initial != 500 || call.current != 120 {
		t.Errorf("call = %+v", call)
	}
}

func TestHandleMessageDropsBadInput(t *testing.T) {
	sink := &fakeSink{}
	b := &Bridge{beds: sink, log: zerolog.Nop()}
	id := uuid.New()

	b.handleMessage(nil, &fakeMessage{topic: "dripwatch/beds/nope/weight", payload: []byte(`{}`)})
	b.handleMessage(nil, &fakeMessage{
		topic:   "dripwatch/beds/" + id.String() + "/weight",
		payload: []byte(`not json`),
	})
	b.handleMessage(nil, &fakeMessage{
		topic:   "dripwatch/beds/" + id.String() + "/weight",
		payload: []byte(`{"initial_weight_g":-5,"current_weight_g":120}`),
	})

	if len(sink.calls) != 0 {
		t.Errorf("sink calls = %d, want 0", len(sink.calls))
	}
}
