package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"tweakdeck/internal/jsonutil"
	"tweakdeck/internal/tweak"
)

// Engine endpoints.
const (
	PathModule      = "/api/module"
	PathTweaks      = "/api/tweaks"
	PathTweakPrefix = "/api/tweak/"
	PathUpdate      = "/api/update"
	PathReload      = "/action/reload"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

const (
	contentText = "text/plain; charset=utf-8"
	contentForm = "application/x-www-form-urlencoded"
)

// StatusError is returned when the engine answers with a non-2xx status.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
}

// Client talks to the remote module engine over HTTP.
type Client struct {
	base   string
	http   *http.Client
	tracer oteltrace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		h := *c.http
		h.Timeout = d
		c.http = &h
	}
}

// WithTracerProvider sets where request spans are recorded.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer("tweakdeck/remote") }
}

// New creates a client for the engine at base (e.g. http://leds.local:8080).
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		http:   &http.Client{},
		tracer: otel.GetTracerProvider().Tracer("tweakdeck/remote"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the engine base URL.
func (c *Client) BaseURL() string {
	return c.base
}

// ActivateModule asks the engine to make name the active module.
func (c *Client) ActivateModule(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, PathModule, contentText, strings.NewReader(name),
		attribute.String("tweakdeck.module", name))
	return err
}

// FetchSchema returns the rendered tweak schema of the active module.
func (c *Client) FetchSchema(ctx context.Context) (*tweak.Schema, error) {
	body, err := c.do(ctx, http.MethodGet, PathTweaks, "", nil)
	if err != nil {
		return nil, err
	}
	s, err := tweak.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", PathTweaks, err)
	}
	return s, nil
}

// Write sends one name=value pair on a typed tweak channel.
func (c *Client) Write(ctx context.Context, ch tweak.Channel, name, value string) error {
	switch ch {
	case tweak.ChannelNumber, tweak.ChannelString, tweak.ChannelColor:
	default:
		return fmt.Errorf("write %s: no value channel %q", name, ch)
	}
	form := url.Values{name: {value}}.Encode()
	_, err := c.do(ctx, http.MethodPost, PathTweakPrefix+string(ch), contentForm, strings.NewReader(form),
		attribute.String("tweakdeck.tweak", name),
		attribute.String("tweakdeck.channel", string(ch)))
	return err
}

// TriggerAction fires the named momentary action once.
func (c *Client) TriggerAction(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, PathTweakPrefix+string(tweak.ChannelAction), contentText, strings.NewReader(name),
		attribute.String("tweakdeck.tweak", name),
		attribute.String("tweakdeck.channel", string(tweak.ChannelAction)))
	return err
}

// Snapshot returns the engine's current value for every tweak of the active
// module, rendered in each control's text form.
func (c *Client) Snapshot(ctx context.Context) (map[string]string, error) {
	body, err := c.do(ctx, http.MethodPost, PathUpdate, "", nil)
	if err != nil {
		return nil, err
	}
	values, err := jsonutil.StringMap(body, "POST "+PathUpdate)
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Reload asks the engine to reload its own state.
func (c *Client) Reload(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, PathReload, "", nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, attrs ...attribute.KeyValue) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path, oteltrace.WithSpanKind(oteltrace.SpanKindClient))
	defer span.End()
	span.SetAttributes(semconv.HTTPMethodKey.String(method), semconv.HTTPTargetKey.String(path))
	span.SetAttributes(attrs...)

	fail := func(err error) ([]byte, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fail(fmt.Errorf("%s %s: %w", method, path, err))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(fmt.Errorf("%s %s: %w", method, path, err))
	}
	defer resp.Body.Close()
	span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return fail(&StatusError{Method: method, Path: path, Code: resp.StatusCode, Status: resp.Status})
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fail(fmt.Errorf("%s %s: read body: %w", method, path, err))
	}
	return data, nil
}
