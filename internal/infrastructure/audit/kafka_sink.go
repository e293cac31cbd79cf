package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/adminauth/internal/config"
	"github.com/turtacn/adminauth/internal/domain/models"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/errors"
	"github.com/turtacn/adminauth/pkg/logger"
)

var _ service.AuditSink = (*KafkaSink)(nil)

// messageWriter is the subset of *kafka.Writer the sink uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes audit events as JSON, keyed by identifier so that one admin's events
// stay ordered within a partition.
type KafkaSink struct {
	writer messageWriter
	logger logger.Logger
}

// NewKafkaSink builds a sink writing to cfg.Topic on cfg.Brokers.
func NewKafkaSink(cfg config.KafkaConfig, log logger.Logger) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.ErrInvalidConfig.WithMessage("kafka audit sink needs brokers and a topic")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           time.Duration(cfg.WriteTimeoutMS) * time.Millisecond,
		BatchTimeout:           time.Duration(cfg.BatchTimeoutMS) * time.Millisecond,
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		AllowAutoTopicCreation: cfg.AutoCreateTopic,
	}
	return newKafkaSink(writer, log), nil
}

func newKafkaSink(writer messageWriter, log logger.Logger) *KafkaSink {
	if log == nil {
		log = logger.NewNoopLogger()
	}
	return &KafkaSink{writer: writer, logger: log.WithComponent("audit_kafka")}
}

// Record publishes event.
func (s *KafkaSink) Record(ctx context.Context, event models.AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.ErrInternalServer.WithError(err)
	}
	msg := kafka.Message{
		Key:   []byte(event.Identifier),
		Value: payload,
		Time:  event.Timestamp,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error(ctx, "Failed to publish audit event", err, logger.String("event_type", event.EventType))
		return errors.ErrInternalServer.WithMessage("audit topic unavailable").WithError(err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
