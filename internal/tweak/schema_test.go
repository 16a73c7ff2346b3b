package tweak

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rainbowMarkup = `
<section id="rainbow" class="module" data-module="rainbow">
  <label for="speed">Speed</label>
  <input class="config" id="speed" type="range" min="0" max="10" step="1" value="5">
  <select class="config" id="palette">
    <option>warm</option>
    <option value="cold" selected>Cold</option>
  </select>
  <input class="config" id="caption" type="text" value="hello">
  <input class="config" id="hue" type="color" value="#FF0000">
  <button class="config" id="burst" type="button">Burst!</button>
  <input class="config" id="mirror" type="checkbox">
  <input class="config" type="range">
  <input class="config" id="speed" type="text" value="dup">
  <p>not a control</p>
</section>`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(rainbowMarkup))
	require.NoError(t, err)

	assert.Equal(t, "rainbow", s.Module)
	assert.Zero(t, s.Version, "version is stamped by the panel")

	names := make([]string, 0, s.Len())
	for _, c := range s.Controls {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"speed", "palette", "caption", "hue", "burst", "mirror"}, names,
		"controls without id and duplicate names are dropped")

	speed, ok := s.Lookup("speed")
	require.True(t, ok)
	assert.Equal(t, KindRange, speed.Kind)
	assert.Equal(t, "Speed", speed.Label)
	assert.Equal(t, "5", speed.Value)
	assert.Equal(t, 10.0, speed.Max)

	palette, _ := s.Lookup("palette")
	assert.Equal(t, KindSelect, palette.Kind)
	assert.Equal(t, []string{"warm", "cold"}, palette.Options)
	assert.Equal(t, "cold", palette.Value)

	hue, _ := s.Lookup("hue")
	assert.Equal(t, KindColor, hue.Kind)
	assert.Equal(t, "#ff0000", hue.Value)

	burst, _ := s.Lookup("burst")
	assert.Equal(t, KindAction, burst.Kind)
	assert.Equal(t, "Burst!", burst.Label)
	assert.Empty(t, burst.Value)

	mirror, _ := s.Lookup("mirror")
	assert.Equal(t, KindUnknown, mirror.Kind)
	assert.Equal(t, Widget{Tag: "input", Type: "checkbox"}, mirror.Widget)
}

func TestParse_ModuleFromFirstElement(t *testing.T) {
	s, err := Parse(strings.NewReader(`<div id="swirl"><input class="config" id="twist" type="range"></div>`))
	require.NoError(t, err)
	assert.Equal(t, "swirl", s.Module)

	twist, ok := s.Lookup("twist")
	require.True(t, ok)
	assert.Equal(t, "50", twist.Value, "range without value defaults to the midpoint")
}

func TestParse_UntypedInputIsText(t *testing.T) {
	s, err := Parse(strings.NewReader(`<div id="texteffects"><input class="config" id="caption" value="hi"></div>`))
	require.NoError(t, err)

	caption, ok := s.Lookup("caption")
	require.True(t, ok)
	assert.Equal(t, KindText, caption.Kind)
	assert.Equal(t, "hi", caption.Value)
}

func TestSchema_WithValuesSelectTakesEngineValue(t *testing.T) {
	s := NewSchema("rainbow", []Control{
		{Name: "pal", Kind: KindSelect, Widget: Widget{Tag: "select"}, Options: []string{"warm", "cold"}, Value: "warm"},
	})

	next, applied := s.WithValues(map[string]string{"pal": "neon"})
	assert.Equal(t, []string{"pal"}, applied)
	pal, _ := next.Lookup("pal")
	assert.Equal(t, "neon", pal.Value, "the engine's value wins over the listed options")
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(strings.NewReader(`<section id="texteffects"></section>`))
	require.NoError(t, err)
	assert.Equal(t, "texteffects", s.Module)
	assert.Zero(t, s.Len())
}

func TestSchema_WithValues(t *testing.T) {
	s := NewSchema("rainbow", []Control{
		{Name: "speed", Kind: KindRange, Widget: Widget{"input", "range"}, Max: 10, Step: 1, Value: "5"},
		{Name: "brightness", Kind: KindRange, Widget: Widget{"input", "range"}, Max: 100, Step: 1, Value: "80"},
		{Name: "hue", Kind: KindColor, Widget: Widget{"input", "color"}, Value: "#ff0000"},
		{Name: "burst", Kind: KindAction, Widget: Widget{"button", "button"}},
	})
	s.Version = 3

	next, applied := s.WithValues(map[string]string{
		"speed": "7",
		"hue":   "not-a-color",
		"burst": "1",
		"ghost": "9",
	})

	assert.Equal(t, []string{"speed"}, applied)
	assert.Equal(t, uint64(3), next.Version)
	got, _ := next.Lookup("speed")
	assert.Equal(t, "7", got.Value)
	got, _ = next.Lookup("brightness")
	assert.Equal(t, "80", got.Value, "absent names are untouched")
	got, _ = next.Lookup("hue")
	assert.Equal(t, "#ff0000", got.Value, "unrepresentable values are ignored")

	orig, _ := s.Lookup("speed")
	assert.Equal(t, "5", orig.Value, "the source schema is not mutated")
}
