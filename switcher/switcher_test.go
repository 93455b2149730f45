// SPDX-License-Identifier: GPL-3.0-or-later

package switcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dhcpforge/dhcpforge/hook"
	"github.com/dhcpforge/dhcpforge/packet"
	"github.com/dhcpforge/dhcpforge/pctx"
	"github.com/dhcpforge/dhcpforge/service"
)

type fakeInput struct {
	ch chan packet.DHCPv4
}

func (f *fakeInput) Get(ctx context.Context) (packet.DHCPv4, error) {
	select {
	case pkt, ok := <-f.ch:
		if !ok {
			<-ctx.Done()
			return packet.DHCPv4{}, ctx.Err()
		}
		return pkt, nil
	case <-ctx.Done():
		return packet.DHCPv4{}, ctx.Err()
	}
}

type fakeOutput struct {
	mu   sync.Mutex
	sent []packet.DHCPv4
}

func (f *fakeOutput) Send(_ context.Context, pkt packet.DHCPv4) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, pkt)
	return len((&pkt).Serialize()), nil
}

func (f *fakeOutput) snapshot() []packet.DHCPv4 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]packet.DHCPv4(nil), f.sent...)
}

// scenario 6: h1@Received sets x=2 (and carries the Fatal flag, but
// succeeds so the flag never triggers), h2@Prepared asserts x==2 and
// sets x=5; after running for a second, drop_count() must be 0 and the
// output must have received x==5.
func TestStateSwitcherLifecycleScenario(t *testing.T) {
	registry := hook.NewRegistry[packet.DHCPv4, *packet.DHCPv4]()

	h1 := hook.New[packet.DHCPv4, *packet.DHCPv4]("h1", func(_ *service.Registry, ctx *pctx.Context[packet.DHCPv4, *packet.DHCPv4]) (int, error) {
		ctx.OutputMut().Xid = 2
		return 0, nil
	}, hook.Fatal)
	registry.RegisterHook(pctx.Received, h1)

	h2 := hook.New[packet.DHCPv4, *packet.DHCPv4]("h2", func(_ *service.Registry, ctx *pctx.Context[packet.DHCPv4, *packet.DHCPv4]) (int, error) {
		require.Equal(t, uint32(2), ctx.Output().Xid)
		ctx.OutputMut().Xid = 5
		return 0, nil
	})
	registry.RegisterHook(pctx.Prepared, h2)

	in := &fakeInput{ch: make(chan packet.DHCPv4, 1)}
	in.ch <- packet.DHCPv4{}
	close(in.ch)
	out := &fakeOutput{}

	ks := NewKillSwitch()
	sw := New[packet.DHCPv4, *packet.DHCPv4](in, out, registry, ks, 0, nil, nil)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	go sw.Run(runCtx)

	time.Sleep(time.Second)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Second)
	defer cancelShutdown()
	require.NoError(t, sw.Shutdown(shutdownCtx))

	require.Equal(t, int64(0), sw.DropCount())
	sent := out.snapshot()
	require.Len(t, sent, 1)
	require.Equal(t, uint32(5), sent[0].Xid)
}

func TestStateSwitcherDropsOnFatalFailure(t *testing.T) {
	registry := hook.NewRegistry[packet.DHCPv4, *packet.DHCPv4]()
	failer := hook.New[packet.DHCPv4, *packet.DHCPv4]("failer", func(_ *service.Registry, _ *pctx.Context[packet.DHCPv4, *packet.DHCPv4]) (int, error) {
		return -1, hook.NewError("boom")
	}, hook.Fatal)
	registry.RegisterHook(pctx.Received, failer)

	in := &fakeInput{ch: make(chan packet.DHCPv4, 1)}
	in.ch <- packet.DHCPv4{}
	close(in.ch)
	out := &fakeOutput{}

	ks := NewKillSwitch()
	sw := New[packet.DHCPv4, *packet.DHCPv4](in, out, registry, ks, 0, nil, nil)

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	go sw.Run(runCtx)

	require.Eventually(t, func() bool {
		return sw.DropCount() == 1
	}, time.Second, 10*time.Millisecond)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), time.Second)
	defer cancelShutdown()
	require.NoError(t, sw.Shutdown(shutdownCtx))
	require.Empty(t, out.snapshot())
}
