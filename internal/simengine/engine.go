// Package simengine is an in-memory stand-in for the remote module engine.
// It serves the same HTTP surface as the real controller, renders tweak
// markup for the active module and records every write it receives.
package simengine

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tweakdeck/internal/tweak"
)

// Param is one tweak a simulated module exposes. Widget is the rendered
// input type: range, select, text, color, button, or anything else, which
// renders as an <input> of that type.
type Param struct {
	Name    string
	Label   string
	Widget  string
	Min     float64
	Max     float64
	Step    float64
	Options []string
	Value   string
}

// Module is a simulated effect module.
type Module struct {
	Name   string
	Params []Param
}

// Received is one write as seen by the engine.
type Received struct {
	Module   string
	Channel  tweak.Channel
	Name     string
	Value    string
	Accepted bool // false when the name is not a tweak of the active module
	At       time.Time
}

// Engine is a simulated module engine.
type Engine struct {
	mu       sync.Mutex
	modules  map[string]*Module
	defaults map[string][]Param
	active   string
	writes   []Received
	reloads  int

	router chi.Router
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	middleware []func(http.Handler) http.Handler
}

// WithMiddleware wraps every route, e.g. to inject latency or failures.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(o *options) { o.middleware = append(o.middleware, mw...) }
}

// New creates an engine serving modules. The first module starts active.
func New(modules []Module, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		modules:  make(map[string]*Module, len(modules)),
		defaults: make(map[string][]Param, len(modules)),
	}
	for i := range modules {
		m := modules[i]
		m.Params = slices.Clone(m.Params)
		e.modules[m.Name] = &m
		e.defaults[m.Name] = slices.Clone(m.Params)
		if i == 0 {
			e.active = m.Name
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(o.middleware...)
	r.Post("/api/module", e.handleModule)
	r.Get("/api/tweaks", e.handleTweaks)
	r.Post("/api/tweak/{channel}", e.handleTweak)
	r.Post("/api/update", e.handleUpdate)
	r.Post("/action/reload", e.handleReload)
	e.router = r
	return e
}

// Handler returns the engine's HTTP handler.
func (e *Engine) Handler() http.Handler {
	return e.router
}

// Active returns the active module name.
func (e *Engine) Active() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Writes returns every write received so far, in arrival order.
func (e *Engine) Writes() []Received {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.writes)
}

// Reloads returns how many reload requests were served.
func (e *Engine) Reloads() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reloads
}

// Value returns the engine-side value of a tweak of the active module.
func (e *Engine) Value(name string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.param(name); p != nil {
		return p.Value, true
	}
	return "", false
}

// Set changes a tweak of the active module on the engine side, as another
// operator or the module itself would.
func (e *Engine) Set(name, value string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p := e.param(name); p != nil {
		p.Value = value
		return true
	}
	return false
}

// Activate switches the active module on the engine side.
func (e *Engine) Activate(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.modules[name]; !ok {
		return false
	}
	e.active = name
	return true
}

func (e *Engine) param(name string) *Param {
	m := e.modules[e.active]
	if m == nil {
		return nil
	}
	for i := range m.Params {
		if m.Params[i].Name == name {
			return &m.Params[i]
		}
	}
	return nil
}

func (e *Engine) handleModule(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<10))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !e.Activate(strings.TrimSpace(string(body))) {
		http.Error(w, "unknown module", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (e *Engine) handleTweaks(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	m := e.modules[e.active]
	var snapshot Module
	if m != nil {
		snapshot = Module{Name: m.Name, Params: slices.Clone(m.Params)}
	}
	e.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render(w, snapshot); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (e *Engine) handleTweak(w http.ResponseWriter, r *http.Request) {
	ch := tweak.Channel(chi.URLParam(r, "channel"))
	switch ch {
	case tweak.ChannelAction:
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<10))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		e.record(ch, strings.TrimSpace(string(body)), "")
	case tweak.ChannelNumber, tweak.ChannelString, tweak.ChannelColor:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for name, vals := range r.PostForm {
			for _, v := range vals {
				e.record(ch, name, v)
			}
		}
	default:
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// record stores a write and applies it when it targets a tweak of the active
// module on the matching channel. Writes for other modules are ignored.
func (e *Engine) record(ch tweak.Channel, name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec := Received{Module: e.active, Channel: ch, Name: name, Value: value, At: time.Now()}
	if p := e.param(name); p != nil && p.channel() == ch {
		rec.Accepted = true
		if ch != tweak.ChannelAction {
			p.Value = value
		}
	}
	e.writes = append(e.writes, rec)
}

func (e *Engine) handleUpdate(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	values := make(map[string]any)
	if m := e.modules[e.active]; m != nil {
		for _, p := range m.Params {
			switch p.channel() {
			case tweak.ChannelAction:
			case tweak.ChannelNumber:
				if f, err := strconv.ParseFloat(p.Value, 64); err == nil {
					values[p.Name] = f
				} else {
					values[p.Name] = p.Value
				}
			default:
				values[p.Name] = p.Value
			}
		}
	}
	e.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(values)
}

func (e *Engine) handleReload(w http.ResponseWriter, r *http.Request) {
	e.mu.Lock()
	for name, m := range e.modules {
		m.Params = slices.Clone(e.defaults[name])
	}
	e.reloads++
	e.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (p Param) widget() tweak.Widget {
	switch p.Widget {
	case "select", "button":
		return tweak.Widget{Tag: p.Widget, Type: buttonType(p.Widget)}
	default:
		return tweak.Widget{Tag: "input", Type: p.Widget}
	}
}

func (p Param) channel() tweak.Channel {
	return tweak.Classify(p.widget()).Channel()
}

func buttonType(tag string) string {
	if tag == "button" {
		return "button"
	}
	return ""
}
