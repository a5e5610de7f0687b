// Copyright 2026 The Collab Authors
// SPDX-License-Identifier: Apache-2.0

package collab

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/collab-foundation/collab/lib/clock"
)

// Polling defaults.
const (
	DefaultPollCadence = time.Second
	DefaultPollGrace   = 5 * time.Second
)

// MessageSource yields incremental message batches. *Session satisfies
// it via SyncMessages.
type MessageSource interface {
	SyncMessages(ctx context.Context) ([]Message, error)
}

// PollerConfig configures a Poller. Source is required; zero durations
// take the defaults above.
type PollerConfig struct {
	Source MessageSource

	// Clock drives the inter-cycle wait. Defaults to the real clock.
	Clock clock.Clock

	// Cadence is the pause between sync cycles.
	Cadence time.Duration

	// Grace is how long to keep draining after the first message
	// arrives, so replies landing just behind it are collected too.
	Grace time.Duration

	// Logger receives poll progress. Defaults to slog.Default().
	Logger *slog.Logger
}

// Poller runs the wait-then-drain loop: sync repeatedly until a
// message arrives, then keep syncing through the grace window and
// return everything collected.
type Poller struct {
	source  MessageSource
	clock   clock.Clock
	cadence time.Duration
	grace   time.Duration
	logger  *slog.Logger
}

// NewPoller validates the configuration and returns a Poller.
func NewPoller(config PollerConfig) (*Poller, error) {
	if config.Source == nil {
		return nil, fmt.Errorf("collab: poller requires a message source")
	}
	poller := &Poller{
		source:  config.Source,
		clock:   config.Clock,
		cadence: config.Cadence,
		grace:   config.Grace,
		logger:  config.Logger,
	}
	if poller.clock == nil {
		poller.clock = clock.Real()
	}
	if poller.cadence <= 0 {
		poller.cadence = DefaultPollCadence
	}
	if poller.grace <= 0 {
		poller.grace = DefaultPollGrace
	}
	if poller.logger == nil {
		poller.logger = slog.Default()
	}
	return poller, nil
}

// Poll blocks until at least one message arrives and the grace window
// after it has elapsed, then returns every message collected in
// arrival order. The wait phase is unbounded; callers bound it through
// ctx. Any sync error aborts the loop immediately — messages collected
// before the failure are discarded, and the persisted cursor means
// they are not re-delivered on the next run.
func (p *Poller) Poll(ctx context.Context) ([]Message, error) {
	var collected []Message
	var firstAt time.Time

	for {
		batch, err := p.source.SyncMessages(ctx)
		if err != nil {
			return nil, fmt.Errorf("polling: %w", err)
		}
		collected = append(collected, batch...)
		if firstAt.IsZero() && len(batch) > 0 {
			firstAt = p.clock.Now()
			p.logger.Debug("first message arrived, draining",
				"grace", p.grace)
		}
		if !firstAt.IsZero() && p.clock.Now().Sub(firstAt) >= p.grace {
			p.logger.Debug("poll complete",
				"messages", len(collected))
			return collected, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("polling: %w", ctx.Err())
		case <-p.clock.After(p.cadence):
		}
	}
}
