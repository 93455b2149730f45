// SPDX-License-Identifier: GPL-3.0-or-later

// Package switcher implements the state switcher: the long-running
// pipeline that binds an [ioport.Input], an [ioport.Output], and a
// [hook.Registry] through the [engine] — spawning one task per
// incoming packet, bounding how many run concurrently, counting drops,
// and honoring a [KillSwitch].
package switcher

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dhcpforge/dhcpforge/engine"
	"github.com/dhcpforge/dhcpforge/hook"
	"github.com/dhcpforge/dhcpforge/ioport"
	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
)

// defaultMaxInFlight bounds concurrent per-packet tasks when no value
// is passed to [New]. spec.md §9 asks implementers to bound in-flight
// tasks rather than spawn unconditionally.
const defaultMaxInFlight = 256

// StateSwitcher drives the accept loop described in spec.md §4.7: pull
// from Input, spawn a bounded per-packet task that runs the full
// lifecycle through the engine, push the result to Output, and count
// drops on any failure.
type StateSwitcher[T any, TP packet.PacketPtr[T]] struct {
	input      ioport.Input[T, TP]
	output     ioport.Output[T, TP]
	engine     *engine.ForwardingEngine[T, TP]
	killSwitch *KillSwitch
	timeNow    func() time.Time

	inFlight chan struct{}
	wg       sync.WaitGroup
	dropped  atomic.Int64
	logger   *slog.Logger
}

// New builds a [StateSwitcher]. maxInFlight bounds concurrently
// spawned per-packet tasks; pass 0 to use [defaultMaxInFlight]. Pass a
// nil logger to use [slog.Default], and a nil timeNow to use
// [time.Now].
func New[T any, TP packet.PacketPtr[T]](
	input ioport.Input[T, TP],
	output ioport.Output[T, TP],
	registry *hook.Registry[T, TP],
	killSwitch *KillSwitch,
	maxInFlight int,
	timeNow func() time.Time,
	logger *slog.Logger,
) *StateSwitcher[T, TP] {
	if maxInFlight <= 0 {
		maxInFlight = defaultMaxInFlight
	}
	if timeNow == nil {
		timeNow = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &StateSwitcher[T, TP]{
		input:      input,
		output:     output,
		engine:     engine.New(registry),
		killSwitch: killSwitch,
		timeNow:    timeNow,
		inFlight:   make(chan struct{}, maxInFlight),
		logger:     logger,
	}
}

// Run executes the accept loop until ctx is canceled or the kill
// switch is cleared. Each accepted packet is processed by an
// independently spawned task; Run itself returns only once the loop
// exits — callers that want to keep accepting in the background should
// invoke Run from its own goroutine and call [StateSwitcher.Shutdown]
// to stop it.
func (s *StateSwitcher[T, TP]) Run(ctx context.Context) {
	for s.killSwitch.IsSet() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		pkt, err := s.input.Get(ctx)
		if err != nil {
			s.logger.Debug("switcher: input.Get failed, retrying", slog.Any("err", err))
			continue
		}

		select {
		case s.inFlight <- struct{}{}:
		case <-ctx.Done():
			return
		}

		c := pctx.New[T, TP](pkt, s.timeNow)
		s.wg.Add(1)
		go s.process(ctx, c)
	}
}

// process runs one packet's full lifecycle and pushes its output,
// counting a drop on any failure along the way. A failed lifecycle or
// send is counted and logged and never affects sibling tasks; a panic
// raised inside a hook is not recovered here.
func (s *StateSwitcher[T, TP]) process(ctx context.Context, c *pctx.Context[T, TP]) {
	defer s.wg.Done()
	defer func() { <-s.inFlight }()

	if err := s.engine.Run(c); err != nil {
		s.dropped.Add(1)
		s.logger.Debug("switcher: lifecycle failed, dropped",
			slog.String("contextId", c.ID().String()),
			slog.Any("err", err))
		return
	}

	out := c.IntoOutput()
	want := len(TP(&out).Serialize())
	n, err := s.output.Send(ctx, out)
	if err != nil || n != want {
		s.dropped.Add(1)
		s.logger.Debug("switcher: send mismatch, dropped",
			slog.String("contextId", c.ID().String()),
			slog.Int("wantBytes", want),
			slog.Int("gotBytes", n),
			slog.Any("err", err))
	}
}

// DropCount returns the number of packets dropped so far, either
// because their lifecycle failed or because sending the output failed
// or wrote an unexpected number of bytes.
func (s *StateSwitcher[T, TP]) DropCount() int64 {
	return s.dropped.Load()
}

// Shutdown clears the kill switch and blocks until every outstanding
// per-packet task has finished, or ctx is done first.
func (s *StateSwitcher[T, TP]) Shutdown(ctx context.Context) error {
	s.killSwitch.Clear()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
