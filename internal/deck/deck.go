// Package deck is the console core: it loads modules, fetches and binds their
// tweak schemas, forwards edits to the dispatcher and reconciles displayed
// values with the engine.
//
// Schema commits always run replace, then rebind, then reflect, so binding
// never sees stale markup and the module indicator never names a module whose
// schema is not on display.
package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"tweakdeck/internal/dispatch"
	"tweakdeck/internal/logging"
	"tweakdeck/internal/module"
	"tweakdeck/internal/tweak"
)

var (
	// ErrSuperseded is returned by Refresh when a newer fetch has already
	// been committed; the fetched schema is discarded.
	ErrSuperseded = errors.New("schema fetch superseded")
	// ErrNotInCatalog is returned by Choose for names outside the catalog.
	ErrNotInCatalog = errors.New("module not in catalog")
)

// Remote is the engine surface the deck needs.
type Remote interface {
	dispatch.Writer
	ActivateModule(ctx context.Context, name string) error
	FetchSchema(ctx context.Context) (*tweak.Schema, error)
	Snapshot(ctx context.Context) (map[string]string, error)
	Reload(ctx context.Context) error
}

// Options configures a Deck.
type Options struct {
	Catalog module.Catalog
	Logger  *slog.Logger
	// OnWrite is called after each dispatched write finishes.
	OnWrite func(dispatch.Result)
}

// Deck owns the displayed schema and everything bound to it.
type Deck struct {
	remote   Remote
	panel    tweak.Panel
	binder   *tweak.Binder
	disp     *dispatch.Dispatcher
	selector *module.Selector
	logger   *slog.Logger

	tickets   atomic.Uint64
	mu        sync.Mutex // guards committed; held across replace, rebind, reflect
	committed uint64
	bindings  atomic.Pointer[tweak.Bindings]

	snapshots singleflight.Group
}

// New creates a deck. ctx bounds the writes it dispatches.
func New(ctx context.Context, r Remote, opts Options) *Deck {
	d := &Deck{
		remote:   r,
		selector: module.NewSelector(opts.Catalog),
		logger:   logging.Component(opts.Logger, "deck"),
	}
	d.disp = dispatch.New(ctx, r, func() uint64 { return d.binder.Live() }, opts.Logger)
	d.disp.OnResult = opts.OnWrite
	d.binder = tweak.NewBinder(d.disp, opts.Logger)
	return d
}

// Schema returns the displayed schema, or nil before the first fetch.
func (d *Deck) Schema() *tweak.Schema {
	return d.panel.Current()
}

// Bindings returns the handlers bound to the displayed schema.
func (d *Deck) Bindings() *tweak.Bindings {
	return d.bindings.Load()
}

// Selector returns the module selector.
func (d *Deck) Selector() *module.Selector {
	return d.selector
}

// Start shows the initial schema: it loads initial when set, otherwise it
// fetches whatever module the engine already runs.
func (d *Deck) Start(ctx context.Context, initial string) (*tweak.Bindings, error) {
	if initial != "" {
		return d.Load(ctx, initial)
	}
	return d.Refresh(ctx)
}

// Refresh fetches the active module's schema and displays it.
func (d *Deck) Refresh(ctx context.Context) (*tweak.Bindings, error) {
	ticket := d.tickets.Add(1)
	s, err := d.remote.FetchSchema(ctx)
	if err != nil {
		d.logger.Warn("schema fetch failed", slog.Any("error", err))
		return nil, fmt.Errorf("refresh schema: %w", err)
	}
	return d.commit(ticket, s)
}

func (d *Deck) commit(ticket uint64, s *tweak.Schema) (*tweak.Bindings, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ticket < d.committed {
		d.logger.Debug("discarding superseded schema",
			slog.String("module", s.Module),
			slog.Uint64("ticket", ticket),
			slog.Uint64("committed", d.committed))
		return d.bindings.Load(), ErrSuperseded
	}
	d.committed = ticket

	shown := d.panel.Replace(s)
	bs := d.binder.Bind(shown)
	d.bindings.Store(bs)
	d.selector.Reflect(shown.Module)

	d.logger.Info("schema displayed",
		slog.String("module", shown.Module),
		slog.Uint64("version", shown.Version),
		slog.Int("controls", shown.Len()),
		slog.Int("skipped", len(bs.Skipped)))
	return bs, nil
}

// Load activates name on the engine and then refreshes the schema. The
// refresh runs whether or not activation succeeded: the engine decides what
// is active.
func (d *Deck) Load(ctx context.Context, name string) (*tweak.Bindings, error) {
	if err := d.remote.ActivateModule(ctx, name); err != nil {
		d.logger.Warn("module activation failed", slog.String("module", name), slog.Any("error", err))
	}
	return d.Refresh(ctx)
}

// Choose is the operator's module selection: it loads name if it is in the
// catalog.
func (d *Deck) Choose(ctx context.Context, name string) (*tweak.Bindings, error) {
	if !d.selector.Choose(name) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotInCatalog)
	}
	return d.Load(ctx, name)
}

// Reconcile overwrites displayed values with the engine's snapshot. Only
// names that match a displayed control change; the rest are ignored. A
// snapshot that returns after the schema was replaced is dropped.
func (d *Deck) Reconcile(ctx context.Context) ([]string, error) {
	gen := d.panel.Version()
	if gen == 0 {
		return nil, nil
	}
	v, err, _ := d.snapshots.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		return d.remote.Snapshot(ctx)
	})
	if err != nil {
		d.logger.Warn("snapshot failed", slog.Any("error", err))
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	values := v.(map[string]string)

	applied, ok := d.panel.ApplyValues(gen, values)
	if !ok {
		d.logger.Debug("dropping snapshot for replaced schema", slog.Uint64("generation", gen))
		return nil, nil
	}
	if ignored := len(values) - len(applied); ignored > 0 {
		d.logger.Debug("snapshot names without a control", slog.Int("ignored", ignored))
	}
	return applied, nil
}

// Reload asks the engine to reload its state, then reconciles.
func (d *Deck) Reload(ctx context.Context) ([]string, error) {
	if err := d.remote.Reload(ctx); err != nil {
		d.logger.Warn("engine reload failed", slog.Any("error", err))
		return nil, fmt.Errorf("reload: %w", err)
	}
	return d.Reconcile(ctx)
}

// Set changes the named tweak: the write is dispatched and the displayed
// value updated. Actions fire once and ignore value.
func (d *Deck) Set(name, value string) error {
	h, ok := d.Bindings().Handler(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, tweak.ErrUnknownTweak)
	}
	c := h.Control()
	v, err := c.Normalize(value)
	if err != nil {
		return err
	}
	if err := h.Trigger(v); err != nil {
		return err
	}
	if c.Kind.Valued() {
		d.panel.ApplyValues(h.Generation(), map[string]string{name: v})
	}
	return nil
}

// Press fires the named action.
func (d *Deck) Press(name string) error {
	if h, ok := d.Bindings().Handler(name); ok && h.Control().Kind != tweak.KindAction {
		return fmt.Errorf("%s is a %s, not an action: %w", name, h.Control().Kind, tweak.ErrInvalidValue)
	}
	return d.Set(name, "")
}

// Nudge moves a range n steps or cycles a select n options from the
// displayed value, and sends the result as one write.
func (d *Deck) Nudge(name string, n int) error {
	c, ok := d.Schema().Lookup(name)
	if !ok {
		return fmt.Errorf("%s: %w", name, tweak.ErrUnknownTweak)
	}
	return d.Set(name, c.Nudge(n))
}

// Wait blocks until every dispatched write has finished.
func (d *Deck) Wait() {
	d.disp.Wait()
}
