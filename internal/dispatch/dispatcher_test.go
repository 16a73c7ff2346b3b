package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweakdeck/internal/remote"
	"tweakdeck/internal/simengine"
	"tweakdeck/internal/tweak"
)

type call struct {
	channel tweak.Channel
	name    string
	value   string
}

// fakeWriter records calls. Writes to names in block wait until release is closed.
type fakeWriter struct {
	mu      sync.Mutex
	calls   []call
	block   map[string]bool
	release chan struct{}
	fail    map[string]error
}

func (f *fakeWriter) Write(ctx context.Context, ch tweak.Channel, name, value string) error {
	return f.record(call{ch, name, value})
}

func (f *fakeWriter) TriggerAction(ctx context.Context, name string) error {
	return f.record(call{tweak.ChannelAction, name, ""})
}

func (f *fakeWriter) record(c call) error {
	if f.block[c.name] {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	return f.fail[c.name]
}

func (f *fakeWriter) all() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func TestDispatcher_RoutesByKind(t *testing.T) {
	fw := &fakeWriter{}
	d := New(context.Background(), fw, nil, nil)

	d.Dispatch(tweak.Write{Name: "speed", Kind: tweak.KindRange, Value: "9"})
	d.Wait()
	d.Dispatch(tweak.Write{Name: "palette", Kind: tweak.KindSelect, Value: "cold"})
	d.Wait()
	d.Dispatch(tweak.Write{Name: "caption", Kind: tweak.KindText, Value: "hi"})
	d.Wait()
	d.Dispatch(tweak.Write{Name: "hue", Kind: tweak.KindColor, Value: "#00ff00"})
	d.Wait()
	d.Dispatch(tweak.Write{Name: "burst", Kind: tweak.KindAction})
	d.Wait()

	assert.Equal(t, []call{
		{tweak.ChannelNumber, "speed", "9"},
		{tweak.ChannelString, "palette", "cold"},
		{tweak.ChannelString, "caption", "hi"},
		{tweak.ChannelColor, "hue", "#00ff00"},
		{tweak.ChannelAction, "burst", ""},
	}, fw.all())
}

func TestDispatcher_SlowWriteDoesNotBlockOthers(t *testing.T) {
	fw := &fakeWriter{block: map[string]bool{"speed": true}, release: make(chan struct{})}
	d := New(context.Background(), fw, nil, nil)

	done := make(chan Result, 2)
	d.OnResult = func(r Result) { done <- r }

	d.Dispatch(tweak.Write{Name: "speed", Kind: tweak.KindRange, Value: "9"})
	d.Dispatch(tweak.Write{Name: "hue", Kind: tweak.KindColor, Value: "#00ff00"})

	select {
	case r := <-done:
		assert.Equal(t, "hue", r.Write.Name, "hue completes while speed is stuck")
	case <-time.After(2 * time.Second):
		t.Fatal("hue write was blocked behind speed")
	}
	close(fw.release)
	d.Wait()
	assert.Len(t, fw.all(), 2)
}

func TestDispatcher_FailureIsDroppedWithoutRetry(t *testing.T) {
	fw := &fakeWriter{fail: map[string]error{"speed": errors.New("connection refused")}}
	d := New(context.Background(), fw, nil, nil)

	var results []Result
	var mu sync.Mutex
	d.OnResult = func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}

	d.Dispatch(tweak.Write{Name: "speed", Kind: tweak.KindRange, Value: "9"})
	d.Wait()

	assert.Len(t, fw.all(), 1, "exactly one attempt")
	require.Len(t, results, 1)
	assert.EqualError(t, results[0].Err, "connection refused")
	assert.NotEmpty(t, results[0].ID)
}

func TestDispatcher_DropsWritesFromReplacedSchema(t *testing.T) {
	fw := &fakeWriter{}
	var live atomic.Uint64
	live.Store(2)
	d := New(context.Background(), fw, live.Load, nil)

	var dropped atomic.Int32
	d.OnResult = func(r Result) {
		if r.Dropped {
			dropped.Add(1)
		}
	}

	d.Dispatch(tweak.Write{Name: "hue", Kind: tweak.KindColor, Value: "#000000", Generation: 1})
	d.Dispatch(tweak.Write{Name: "twist", Kind: tweak.KindRange, Value: "2", Generation: 2})
	d.Wait()

	assert.Equal(t, []call{{tweak.ChannelNumber, "twist", "2"}}, fw.all())
	assert.Equal(t, int32(1), dropped.Load())
}

func TestDispatcher_DropsUnknownKind(t *testing.T) {
	fw := &fakeWriter{}
	d := New(context.Background(), fw, nil, nil)
	d.Dispatch(tweak.Write{Name: "mirror", Kind: tweak.KindUnknown, Value: "on"})
	d.Wait()
	assert.Empty(t, fw.all())
}

// Concurrent writes of different kinds both reach the engine with their own
// payloads, whichever completes first.
func TestDispatcher_ConcurrentTypedWritesReachEngine(t *testing.T) {
	var gate sync.WaitGroup
	gate.Add(2)
	engine := simengine.New(simengine.DefaultModules(), simengine.WithMiddleware(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/tweak/number" || r.URL.Path == "/api/tweak/color" {
				// Hold both writes until both are in flight.
				gate.Done()
				gate.Wait()
			}
			next.ServeHTTP(w, r)
		})
	}))
	require.True(t, engine.Activate("rainbow"))
	srv := httptest.NewServer(engine.Handler())
	defer srv.Close()

	d := New(context.Background(), remote.New(srv.URL), nil, nil)
	d.Dispatch(tweak.Write{Module: "rainbow", Name: "speed", Kind: tweak.KindRange, Value: "9"})
	d.Dispatch(tweak.Write{Module: "rainbow", Name: "hue", Kind: tweak.KindColor, Value: "#00ff00"})
	d.Wait()

	got := map[string]simengine.Received{}
	for _, w := range engine.Writes() {
		got[w.Name] = w
	}
	require.Len(t, got, 2)
	assert.Equal(t, tweak.ChannelNumber, got["speed"].Channel)
	assert.Equal(t, "9", got["speed"].Value)
	assert.Equal(t, tweak.ChannelColor, got["hue"].Channel)
	assert.Equal(t, "#00ff00", got["hue"].Value)
	assert.True(t, got["speed"].Accepted)
	assert.True(t, got["hue"].Accepted)
}
