package usecase

import (
	"time"

	"AstroView/internal/domain/models"
	"AstroView/internal/domain/repository"
	"AstroView/internal/service/poller"
	"AstroView/pkg/logger"
)

// LiveCollector bridges the backend's push channel into the poll store.
// A pushed snapshot lands in the same slots the pollers fill, stamped with
// a newer generation, so slower in-flight polls are dropped on arrival.
// Losing the stream costs freshness, not correctness.
type LiveCollector struct {
	stream repository.UpdateStream
	polls  *poller.Store
	logger *logger.Logger
	done   chan struct{}
}

// NewLiveCollector creates the collector.
func NewLiveCollector(stream repository.UpdateStream, polls *poller.Store, l *logger.Logger) *LiveCollector {
	return &LiveCollector{
		stream: stream,
		polls:  polls,
		logger: l,
		done:   make(chan struct{}),
	}
}

// Start connects the stream and begins applying updates. A failed initial
// dial is not fatal; the loop keeps retrying in the background.
func (c *LiveCollector) Start() {
	if err := c.stream.Connect(); err != nil {
		c.logger.Warn("update stream unavailable, poll-only mode", logger.Error(err))
	}
	go c.loop()
}

func (c *LiveCollector) loop() {
	updates, errs := c.stream.Read()
	for {
		select {
		case <-c.done:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update == nil {
				continue
			}
			c.apply(update.UserID, update)
		case err, ok := <-errs:
			if !ok {
				return
			}
			c.logger.Warn("update stream error", logger.Error(err))
			select {
			case <-c.done:
				return
			default:
			}
			if rerr := c.stream.Reconnect(); rerr != nil {
				c.logger.Warn("update stream reconnect failed", logger.Error(rerr))
				time.Sleep(time.Second)
			}
		}
	}
}

// apply routes one pushed snapshot into the user's slots. Apply is a no-op
// for slots nobody subscribes to, so an update for an inactive user costs
// nothing.
func (c *LiveCollector) apply(userID string, update *models.LiveUpdate) {
	if update.Positions != nil {
		c.polls.Apply(KeyPositions(userID), update.Positions)
	}
	if update.Equity != nil {
		c.polls.Apply(KeyEquity(userID), update.Equity)
	}
	if update.LatestSignal != nil {
		c.polls.Apply(KeyLatestSignal(userID), update.LatestSignal)
	}
}

// Stop shuts the collector and the stream down.
func (c *LiveCollector) Stop() {
	close(c.done)
	c.stream.Close()
}
