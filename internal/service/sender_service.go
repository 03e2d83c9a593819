package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"parispub/internal/entities"
	"parispub/internal/metrics"
)

// SubjectReservationCreated is the event subject published per booking.
const SubjectReservationCreated = "reservation.created"

// EventPublisher is the outbound event boundary (NATS in production).
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// SenderService delivers confirmations off the booking path. A single worker
// drains a buffered queue, throttled by a rate limiter; every failure is
// logged and counted and never reaches the caller that enqueued it.
type SenderService struct {
	notifiers []Notifier
	publisher EventPublisher
	limiter   *rate.Limiter
	logger    *zerolog.Logger

	queue  chan entities.ConfirmationData
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSenderService(notifiers []Notifier, publisher EventPublisher, perSecond float64, buffer int, logger *zerolog.Logger) *SenderService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if buffer <= 0 {
		buffer = 100
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &SenderService{
		notifiers: notifiers,
		publisher: publisher,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
		queue:     make(chan entities.ConfirmationData, buffer),
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
	go s.run()
	return s
}

// Enqueue hands a confirmation to the worker without blocking. It returns
// false when the queue is full or the sender is closed.
func (s *SenderService) Enqueue(data entities.ConfirmationData) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false
	}
	select {
	case s.queue <- data:
		return true
	default:
		return false
	}
}

// Close stops accepting work and waits for the queue to drain or ctx to end.
func (s *SenderService) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		s.cancel()
		<-s.done
		return ctx.Err()
	}
}

func (s *SenderService) run() {
	defer close(s.done)
	for data := range s.queue {
		if err := s.limiter.Wait(s.ctx); err != nil {
			s.logger.Warn().Err(err).Str("booking_ref", data.BookingRef).Msg("confirmation dropped on shutdown")
			continue
		}
		s.deliver(data)
	}
}

func (s *SenderService) deliver(data entities.ConfirmationData) {
	for _, n := range s.notifiers {
		if err := n.Notify(s.ctx, data); err != nil {
			metrics.IncNotificationFailed(n.Channel())
			s.logger.Warn().Err(err).
				Str("channel", n.Channel()).
				Str("booking_ref", data.BookingRef).
				Msg("reservation committed but confirmation failed")
		}
	}

	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(reservationCreatedEvent{
		BookingRef: data.BookingRef,
		Date:       data.Date,
		Time:       data.StartTime,
		EndTime:    data.EndTime,
		PartySize:  data.PartySize,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("cannot encode reservation event")
		return
	}
	if err := s.publisher.Publish(s.ctx, SubjectReservationCreated, payload); err != nil {
		metrics.IncNotificationFailed("events")
		s.logger.Warn().Err(err).Str("booking_ref", data.BookingRef).Msg("cannot publish reservation event")
	}
}

type reservationCreatedEvent struct {
	BookingRef string `json:"bookingRef"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	EndTime    string `json:"endTime"`
	PartySize  int    `json:"partySize"`
}
