package tweak

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"tweakdeck/internal/logging"
)

// ErrStale is returned by a Handler whose schema has been replaced.
var ErrStale = errors.New("stale tweak handler")

// Write is one typed change bound for the remote engine.
type Write struct {
	Module     string
	Name       string
	Kind       Kind
	Value      string // empty for actions
	Generation uint64 // schema version the handler was bound under
}

// Channel returns the write channel for w.
func (w Write) Channel() Channel {
	return w.Kind.Channel()
}

// Sink receives writes from bound handlers. Dispatch must not block.
type Sink interface {
	Dispatch(Write)
}

// Binder attaches handlers to the controls of a schema. Only the most
// recently bound generation is live; handlers from earlier generations
// refuse to fire.
type Binder struct {
	sink   Sink
	logger *slog.Logger
	live   atomic.Uint64
}

// NewBinder creates a binder that hands writes to sink.
func NewBinder(sink Sink, logger *slog.Logger) *Binder {
	return &Binder{sink: sink, logger: logging.Component(logger, "binder")}
}

// Live returns the generation whose handlers may currently fire.
func (b *Binder) Live() uint64 {
	return b.live.Load()
}

// Bind classifies every control of s and attaches one handler to each
// recognized control. Controls of unknown kind are skipped and logged. After
// Bind returns, handlers from any previous Bind are dead.
func (b *Binder) Bind(s *Schema) *Bindings {
	bs := &Bindings{
		Module:     s.Module,
		Generation: s.Version,
		handlers:   make(map[string]*Handler, s.Len()),
	}
	for _, c := range s.Controls {
		if kind := Classify(c.Widget); kind != c.Kind || kind == KindUnknown {
			b.logger.Warn("skipping control with unsupported widget",
				slog.String("module", s.Module),
				slog.String("tweak", c.Name),
				slog.String("widget", c.Widget.String()))
			bs.Skipped = append(bs.Skipped, c)
			continue
		}
		bs.handlers[c.Name] = &Handler{binder: b, control: c, module: s.Module, generation: s.Version}
		bs.order = append(bs.order, c.Name)
	}
	b.live.Store(s.Version)
	b.logger.Debug("bound schema",
		slog.String("module", s.Module),
		slog.Uint64("generation", s.Version),
		slog.Int("handlers", len(bs.order)),
		slog.Int("skipped", len(bs.Skipped)))
	return bs
}

// Bindings is the handler set produced by one Bind.
type Bindings struct {
	Module     string
	Generation uint64
	Skipped    []Control

	handlers map[string]*Handler
	order    []string
}

// Handler returns the handler bound to the named control.
func (bs *Bindings) Handler(name string) (*Handler, bool) {
	if bs == nil {
		return nil, false
	}
	h, ok := bs.handlers[name]
	return h, ok
}

// Names returns the bound control names in schema order.
func (bs *Bindings) Names() []string {
	if bs == nil {
		return nil
	}
	return append([]string(nil), bs.order...)
}

// Len returns the number of bound handlers.
func (bs *Bindings) Len() int {
	if bs == nil {
		return 0
	}
	return len(bs.order)
}

// Handler is the change handler attached to one control.
type Handler struct {
	binder     *Binder
	control    Control
	module     string
	generation uint64
}

// Control returns the control this handler is bound to.
func (h *Handler) Control() Control {
	return h.control
}

// Generation returns the schema version the handler was bound under.
func (h *Handler) Generation() uint64 {
	return h.generation
}

// Trigger hands one write to the sink. For actions the value is ignored and
// each call is one activation. Values are normalized first; a value the
// control cannot represent is rejected without dispatching.
func (h *Handler) Trigger(value string) error {
	if live := h.binder.Live(); live != h.generation {
		h.binder.logger.Debug("dropping write from replaced schema",
			slog.String("module", h.module),
			slog.String("tweak", h.control.Name),
			slog.Uint64("generation", h.generation),
			slog.Uint64("live", live))
		return fmt.Errorf("%s: %w", h.control.Name, ErrStale)
	}
	v, err := h.control.Normalize(value)
	if err != nil {
		return err
	}
	h.binder.sink.Dispatch(Write{
		Module:     h.module,
		Name:       h.control.Name,
		Kind:       h.control.Kind,
		Value:      v,
		Generation: h.generation,
	})
	return nil
}
