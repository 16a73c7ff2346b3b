package simengine

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tweakdeck/internal/tweak"
)

func serve(t *testing.T, e *Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if strings.Contains(body, "=") {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	e.Handler().ServeHTTP(w, req)
	return w
}

func TestEngine_RenderedMarkupParses(t *testing.T) {
	e := New(DefaultModules())
	for _, m := range DefaultModules() {
		t.Run(m.Name, func(t *testing.T) {
			require.Equal(t, http.StatusOK, serve(t, e, http.MethodPost, "/api/module", m.Name).Code)
			w := serve(t, e, http.MethodGet, "/api/tweaks", "")
			require.Equal(t, http.StatusOK, w.Code)

			s, err := tweak.Parse(w.Body)
			require.NoError(t, err)
			assert.Equal(t, m.Name, s.Module)
			require.Equal(t, len(m.Params), s.Len())
			for i, p := range m.Params {
				c := s.Controls[i]
				assert.Equal(t, p.Name, c.Name)
				assert.Equal(t, p.Label, c.Label)
				assert.Equal(t, tweak.Classify(p.widget()), c.Kind)
				if c.Kind.Valued() {
					assert.Equal(t, p.Value, c.Value)
				}
			}
		})
	}
}

func TestEngine_UnknownModule(t *testing.T) {
	e := New(DefaultModules())
	w := serve(t, e, http.MethodPost, "/api/module", "nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "elasticbubbles", e.Active())
}

func TestEngine_WritesApplyToActiveModuleOnly(t *testing.T) {
	e := New(DefaultModules())
	serve(t, e, http.MethodPost, "/api/module", "rainbow")

	serve(t, e, http.MethodPost, "/api/tweak/number", url.Values{"speed": {"9"}}.Encode())
	serve(t, e, http.MethodPost, "/api/tweak/color", url.Values{"hue": {"#00ff00"}}.Encode())
	serve(t, e, http.MethodPost, "/api/tweak/string", url.Values{"speed": {"oops"}}.Encode())
	serve(t, e, http.MethodPost, "/api/tweak/number", url.Values{"twist": {"2"}}.Encode())
	serve(t, e, http.MethodPost, "/api/tweak/action", "burst")

	v, _ := e.Value("speed")
	assert.Equal(t, "9", v)
	v, _ = e.Value("hue")
	assert.Equal(t, "#00ff00", v)

	writes := e.Writes()
	require.Len(t, writes, 5)
	accepted := []bool{true, true, false, false, true}
	for i, w := range writes {
		assert.Equal(t, accepted[i], w.Accepted, "write %d (%s %s)", i, w.Channel, w.Name)
		assert.Equal(t, "rainbow", w.Module)
	}

	assert.Equal(t, http.StatusNotFound, serve(t, e, http.MethodPost, "/api/tweak/bogus", "").Code)
}

func TestEngine_UpdateAndReload(t *testing.T) {
	e := New(DefaultModules())
	serve(t, e, http.MethodPost, "/api/module", "rainbow")
	e.Set("speed", "7")

	w := serve(t, e, http.MethodPost, "/api/update", "")
	require.Equal(t, http.StatusOK, w.Code)
	var values map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &values))
	assert.Equal(t, 7.0, values["speed"])
	assert.Equal(t, "#ff0000", values["hue"])
	assert.NotContains(t, values, "burst", "actions have no value")

	require.Equal(t, http.StatusOK, serve(t, e, http.MethodPost, "/action/reload", "").Code)
	assert.Equal(t, 1, e.Reloads())
	v, _ := e.Value("speed")
	assert.Equal(t, "5", v, "reload restores defaults")
}
