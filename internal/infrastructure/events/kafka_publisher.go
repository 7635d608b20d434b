package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/NikitaTalele2002/NewServiceCrm-sub010/internal/application/ports"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/config"
	"github.com/NikitaTalele2002/NewServiceCrm-sub010/pkg/logger"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher pushes request and movement events onto Kafka for the
// downstream document/SAP consumers.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	cfg      config.KafkaConfig
	log      *logger.Logger
}

// NewKafkaPublisher builds a synchronous, idempotent producer.
func NewKafkaPublisher(cfg config.KafkaConfig, log *logger.Logger) (*KafkaPublisher, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = cfg.Retries
	sc.Producer.Idempotent = true
	sc.Net.MaxOpenRequests = 1 // required by idempotent producer
	sc.Version = sarama.V2_8_0_0

	switch cfg.Acks {
	case "0":
		sc.Producer.RequiredAcks = sarama.NoResponse
		sc.Producer.Idempotent = false
	case "1":
		sc.Producer.RequiredAcks = sarama.WaitForLocal
		sc.Producer.Idempotent = false
	default:
		sc.Producer.RequiredAcks = sarama.WaitForAll
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &KafkaPublisher{producer: producer, cfg: cfg, log: log}, nil
}

// Publish serializes the event as JSON and sends it to the topic matching
// its type, keyed by the entity id so per-entity ordering holds.
func (p *KafkaPublisher) Publish(ctx context.Context, event any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	topic, key, eventType, err := p.route(event)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(eventType)},
			{Key: []byte("event-id"), Value: []byte(uuid.New().String())},
			{Key: []byte("timestamp"), Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.log.Debug().
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("event_type", eventType).
		Msg("event published")
	return nil
}

func (p *KafkaPublisher) route(event any) (topic, key, eventType string, err error) {
	switch e := event.(type) {
	case ports.RequestEvent:
		return p.cfg.TopicRequests, strconv.FormatInt(e.RequestID, 10), "SpareRequest" + titleStatus(string(e.Status)), nil
	case ports.MovementEvent:
		return p.cfg.TopicMovements, strconv.FormatInt(e.MovementID, 10), "StockMovement" + titleStatus(string(e.Status)), nil
	default:
		return "", "", "", fmt.Errorf("unknown event type: %T", event)
	}
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// titleStatus turns "in_transit" into "InTransit" for the event-type header.
func titleStatus(s string) string {
	out := make([]byte, 0, len(s))
	upper := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		out = append(out, c)
	}
	return string(out)
}
