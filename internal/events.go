package internal

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DrGermanius/Bogocargo/internal/model"
)

// OrderEvent is one committed status change, published for downstream consumers.
type OrderEvent struct {
	EventID    uuid.UUID          `json:"eventID"`
	OrderID    int                `json:"orderID"`
	From       *model.OrderStatus `json:"from"`
	To         model.OrderStatus  `json:"to"`
	ActorID    int                `json:"actorID"`
	OccurredAt time.Time          `json:"occurredAt"`
}

func NewOrderEvent(orderID int, from *model.OrderStatus, to model.OrderStatus, actorID int, at time.Time) OrderEvent {
	return OrderEvent{
		EventID:    uuid.New(),
		OrderID:    orderID,
		From:       from,
		To:         to,
		ActorID:    actorID,
		OccurredAt: at,
	}
}

type IPublisher interface {
	Publish(context.Context, OrderEvent) error
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.SugaredLogger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.SugaredLogger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return NewKafkaPublisherWithProducer(producer, topic, logger), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string, logger *zap.SugaredLogger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish keys messages by order id so events of one order stay in one partition.
func (p *KafkaPublisher) Publish(_ context.Context, e OrderEvent) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.Itoa(e.OrderID)),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return err
	}

	p.logger.Debugw("order event published",
		"topic", p.topic,
		"partition", partition,
		"offset", offset,
		"order_id", e.OrderID,
		"to", e.To)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
