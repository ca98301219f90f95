// Package kafka forwards audit events to a Kafka topic so downstream
// consumers can materialize custody and access trails.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	audit "carelock/pkg/platform/audit"
)

// Producer is the subset of *kgo.Client used by Store.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// Store implements audit.Store by producing one record per event.
// Records are keyed by patient id so a patient's trail stays ordered within
// one partition.
type Store struct {
	producer Producer
	topic    string
}

// NewClient dials the brokers with the audit topic as the default topic.
func NewClient(brokers []string, topic string) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

func New(producer Producer, topic string) *Store {
	return &Store{producer: producer, topic: topic}
}

type payload struct {
	Category       string `json:"category"`
	Timestamp      string `json:"timestamp"`
	Action         string `json:"action"`
	ClinicianID    string `json:"clinician_id,omitempty"`
	PatientID      string `json:"patient_id,omitempty"`
	RelationshipID string `json:"relationship_id,omitempty"`
	Detail         string `json:"detail,omitempty"`
	RequestID      string `json:"request_id,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	p := payload{
		Category:  string(event.Category),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Action:    event.Action,
		Detail:    event.Detail,
		RequestID: event.RequestID,
	}
	if !event.ClinicianID.IsNil() {
		p.ClinicianID = event.ClinicianID.String()
	}
	if !event.PatientID.IsNil() {
		p.PatientID = event.PatientID.String()
	}
	if !event.RelationshipID.IsNil() {
		p.RelationshipID = event.RelationshipID.String()
	}

	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(p.PatientID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(event.Action)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	s.producer.Close()
}
