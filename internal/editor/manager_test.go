package editor

import (
	"bytes"
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"sectionview/internal/netz"
	"sectionview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMetrics struct {
	mu        sync.Mutex
	presented int
	errs      []string
	unmapped  int
	reloads   []error
	nodes     int
}

func (f *fakeMetrics) PresentObserve(time.Duration) {}
func (f *fakeMetrics) PresentationInc() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.presented++
}
func (f *fakeMetrics) PresentationErrInc(reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, reason)
}
func (f *fakeMetrics) UnmappedSelectionInc() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unmapped++
}
func (f *fakeMetrics) ReloadObserve(nodes, _ int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads = append(f.reloads, err)
	if err == nil {
		f.nodes = nodes
	}
}

func staticLoader(net *netz.Network) Loader {
	return func(context.Context) (*netz.Network, error) { return net, nil }
}

func TestReload_InstallsSnapshot(t *testing.T) {
	net := testutil.ChainNetwork(t)
	m := &fakeMetrics{}
	mgr := NewManager(staticLoader(net), nil, 0, m)

	assert.Nil(t, mgr.Network())
	assert.True(t, mgr.LoadedAt().IsZero())

	require.NoError(t, mgr.Reload(context.Background()))
	assert.Same(t, net, mgr.Network())
	assert.False(t, mgr.LoadedAt().IsZero())
	assert.Equal(t, []error{nil}, m.reloads)
	assert.Equal(t, 6, m.nodes)
}

func TestReload_KeepsSnapshotOnError(t *testing.T) {
	net := testutil.ChainNetwork(t)
	boom := errors.New("db down")
	fail := false
	load := func(context.Context) (*netz.Network, error) {
		if fail {
			return nil, boom
		}
		return net, nil
	}
	m := &fakeMetrics{}
	mgr := NewManager(load, nil, 0, m)
	require.NoError(t, mgr.Reload(context.Background()))

	fail = true
	err := mgr.Reload(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Same(t, net, mgr.Network())
	require.Len(t, m.reloads, 2)
	assert.ErrorIs(t, m.reloads[1], boom)
}

func TestReload_NoLoader(t *testing.T) {
	mgr := NewManager(nil, nil, 0, nil)
	assert.Error(t, mgr.Reload(context.Background()))
}

func TestStartRefresher_ReloadsUntilStopped(t *testing.T) {
	net := testutil.ChainNetwork(t)
	var calls atomic.Int32
	load := func(context.Context) (*netz.Network, error) {
		calls.Add(1)
		return net, nil
	}
	mgr := NewManager(load, nil, 5*time.Millisecond, nil)

	mgr.StartRefresher(context.Background())
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	mgr.Stop()

	stopped := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
	assert.Same(t, net, mgr.Network())
}

func TestStartRefresher_DisabledWithoutInterval(t *testing.T) {
	mgr := NewManager(staticLoader(nil), nil, 0, nil)
	mgr.StartRefresher(context.Background())
	mgr.Stop()
	assert.Nil(t, mgr.Network())
}

func TestPresent_ConcurrentWithInstall(t *testing.T) {
	net := testutil.ChainNetwork(t)
	mgr := NewManager(nil, nil, 0, nil)
	mgr.Install(net)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p, err := mgr.Present(context.Background(), Request{SectionID: 11})
				if assert.NoError(t, err) {
					assert.Equal(t, 1, p.LeftNodeID)
				}
			}
		}()
	}
	for j := 0; j < 20; j++ {
		mgr.Install(net)
	}
	wg.Wait()
}

func TestReload_DoesNotLog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	mgr := NewManager(staticLoader(testutil.ChainNetwork(t)), nil, 0, nil)
	require.NoError(t, mgr.Reload(context.Background()))
	assert.Empty(t, buf.String())
}
