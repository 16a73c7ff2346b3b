// Package dispatch sends tweak writes to the remote engine.
//
// Every write runs on its own goroutine: a slow or failed write never delays
// another. There is no retry and no ordering between writes; the engine keeps
// whichever value arrives last. Reconciliation is the recovery path for a
// dropped write.
package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"tweakdeck/internal/logging"
	"tweakdeck/internal/tweak"
)

// Writer is the transport the dispatcher sends through.
type Writer interface {
	Write(ctx context.Context, ch tweak.Channel, name, value string) error
	TriggerAction(ctx context.Context, name string) error
}

// LiveFunc reports the schema generation whose writes may still be sent.
type LiveFunc func() uint64

// Result describes one finished write. It is passed to the OnResult hook.
type Result struct {
	ID    string
	Write tweak.Write
	Err   error
	// Dropped is true when the write was discarded before sending because
	// its schema had been replaced.
	Dropped bool
}

// Dispatcher sends writes fire-and-forget.
type Dispatcher struct {
	w      Writer
	live   LiveFunc
	logger *slog.Logger
	ctx    context.Context

	// OnResult, if set, is called once per write after it finishes.
	OnResult func(Result)

	wg sync.WaitGroup
}

// Ensure Dispatcher can receive writes from bound handlers.
var _ tweak.Sink = (*Dispatcher)(nil)

// New creates a dispatcher. ctx bounds every write; live may be nil, in
// which case no write is dropped for staleness.
func New(ctx context.Context, w Writer, live LiveFunc, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		w:      w,
		live:   live,
		logger: logging.Component(logger, "dispatch"),
		ctx:    ctx,
	}
}

// Dispatch starts sending wr and returns immediately.
func (d *Dispatcher) Dispatch(wr tweak.Write) {
	id := uuid.NewString()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.finish(d.send(id, wr))
	}()
}

// Wait blocks until every dispatched write has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) send(id string, wr tweak.Write) Result {
	res := Result{ID: id, Write: wr}
	log := d.logger.With(
		slog.String("write_id", id),
		slog.String("module", wr.Module),
		slog.String("tweak", wr.Name),
		slog.String("channel", string(wr.Channel())))

	if d.live != nil {
		if live := d.live(); live != wr.Generation {
			res.Dropped = true
			log.Debug("dropping write from replaced schema",
				slog.Uint64("generation", wr.Generation),
				slog.Uint64("live", live))
			return res
		}
	}

	switch ch := wr.Channel(); ch {
	case tweak.ChannelAction:
		res.Err = d.w.TriggerAction(d.ctx, wr.Name)
	case tweak.ChannelNone:
		res.Dropped = true
		log.Warn("dropping write without a channel", slog.String("kind", wr.Kind.String()))
		return res
	default:
		res.Err = d.w.Write(d.ctx, ch, wr.Name, wr.Value)
	}

	if res.Err != nil {
		log.Warn("tweak write failed", slog.String("value", wr.Value), slog.Any("error", res.Err))
	} else {
		log.Debug("tweak write sent", slog.String("value", wr.Value))
	}
	return res
}

func (d *Dispatcher) finish(res Result) {
	if d.OnResult != nil {
		d.OnResult(res)
	}
}
