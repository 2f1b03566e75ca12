package service

import (
	"context"
	"encoding/json"

	"car-rental-admin/internal/delivery/dto"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisBookingEventsChannel is the pub/sub channel carrying booking mutations
const RedisBookingEventsChannel = "bookings:events"

// BookingEventService fans booking mutations out to every API instance through Redis pub/sub
type BookingEventService interface {
	Publish(ctx context.Context, event dto.BookingEvent) error
	Subscribe(ctx context.Context) (<-chan dto.BookingEvent, error)
}

type bookingEventService struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewBookingEventService(redisClient *redis.Client, log *logrus.Logger) BookingEventService {
	return &bookingEventService{
		redisClient: redisClient,
		log:         log,
	}
}

func (s *bookingEventService) Publish(ctx context.Context, event dto.BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.redisClient.Publish(ctx, RedisBookingEventsChannel, data).Err()
}

// Subscribe streams events until ctx is done; the returned channel is closed afterwards
func (s *bookingEventService) Subscribe(ctx context.Context) (<-chan dto.BookingEvent, error) {
	sub := s.redisClient.Subscribe(ctx, RedisBookingEventsChannel)

	// Wait for the subscription confirmation so callers know it is live
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	out := make(chan dto.BookingEvent, 16)
	ch := sub.Channel()

	go func() {
		defer close(out)
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event dto.BookingEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					s.log.Warnf("Failed to decode booking event: %+v", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
