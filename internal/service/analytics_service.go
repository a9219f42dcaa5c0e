package service

import (
	"context"
	"sync"

	"ship-consultant-be/internal/pkg/logger"
	"ship-consultant-be/pkg/events"
	pktNats "ship-consultant-be/pkg/nats"
)

// AnalyticsService consumes lifecycle events off the durable stream and keeps
// running counters. It is a worker, not a request handler; counters survive
// restarts only as far as the JetStream consumer offset does.
type AnalyticsService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger

	mu     sync.Mutex
	counts map[string]int64
}

func NewAnalyticsService(sub *pktNats.Subscriber, log logger.ILogger) *AnalyticsService {
	return &AnalyticsService{
		subscriber: sub,
		logger:     log,
		counts:     make(map[string]int64),
	}
}

// Start subscribes to all consultant events with a durable consumer. Call it
// in a goroutine from bootstrap.
func (s *AnalyticsService) Start() {
	err := s.subscriber.Subscribe(pktNats.SubjectAll, "consultant-analytics", s.handleEvent)
	if err != nil {
		s.logger.Error("AnalyticsService", "Failed to subscribe to event stream", map[string]interface{}{"error": err.Error()})
	}
}

func (s *AnalyticsService) handleEvent(_ context.Context, event events.Event) error {
	s.mu.Lock()
	s.counts[event.EventType()]++
	total := s.counts[event.EventType()]
	s.mu.Unlock()

	details := map[string]interface{}{
		"event_type": event.EventType(),
		"total_seen": total,
	}
	for k, v := range event.Payload() {
		details[k] = v
	}
	s.logger.Info("AnalyticsService", "Lifecycle event", details)
	return nil
}

// Counts returns a copy of the per-event-type counters.
func (s *AnalyticsService) Counts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}
