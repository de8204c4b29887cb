package event

import (
	"context"
	"sync"

	"hotelbooking/config"
	"hotelbooking/infras/kafka"
	"hotelbooking/infras/otel"
	"hotelbooking/internal/domains/booking/model/dto"
	"hotelbooking/shared/constant"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer tails the booking lifecycle topics and writes an audit log entry
// for every event. It blocks until the context is cancelled.
type Consumer struct {
	cfg   *config.Config
	kafka kafka.Client
	otel  otel.Otel
}

func NewConsumer(cfg *config.Config, kafkaClient kafka.Client, otel otel.Otel) *Consumer {
	return &Consumer{
		cfg:   cfg,
		kafka: kafkaClient,
		otel:  otel,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	topics := []string{
		c.cfg.Kafka.Topics.BookingCreated,
		c.cfg.Kafka.Topics.BookingCancelled,
	}

	var wg sync.WaitGroup

	for _, topic := range topics {
		if topic == constant.Empty {
			continue
		}

		wg.Add(1)

		go func() {
			defer wg.Done()

			c.kafka.Consume(ctx, c.cfg.Kafka.ConsumerGroup, topic, func(msg kafkaGo.Message) {
				c.Handle(ctx, topic, msg)
			})
		}()
	}

	wg.Wait()
}

func (c *Consumer) Handle(ctx context.Context, topic string, msg kafkaGo.Message) {
	_, scope := c.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Handle")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[dto.BookingResponse](msg)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("topic", topic).Msg("failed to decode booking event")

		return
	}

	booking, ok := decoded.Value.(dto.BookingResponse)
	if !ok {
		log.Error().Str("topic", topic).Msg("unexpected booking event payload")

		return
	}

	scope.AddEvent("Booking event handled")

	log.Info().
		Str("topic", topic).
		Int64("bookingID", booking.ID).
		Int64("roomID", booking.RoomID).
		Int64("customerID", booking.CustomerID).
		Str("startDate", booking.StartDate).
		Str("endDate", booking.EndDate).
		Bool("isActive", booking.IsActive).
		Msg("booking event received")
}
