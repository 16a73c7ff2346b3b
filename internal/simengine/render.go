package simengine

import (
	"html/template"
	"io"

	"tweakdeck/internal/tweak"
)

var markup = template.Must(template.New("tweaks").Funcs(template.FuncMap{
	"num": tweak.FormatNumber,
}).Parse(`<section id="{{.Name}}" class="module" data-module="{{.Name}}">
{{- range .Params}}
  <div class="tweak">
    <label for="{{.Name}}">{{.Label}}</label>
    {{- if eq .Widget "range"}}
    <input class="config" id="{{.Name}}" type="range" min="{{num .Min}}" max="{{num .Max}}" step="{{num .Step}}" value="{{.Value}}">
    {{- else if eq .Widget "select"}}
    <select class="config" id="{{.Name}}">
      {{- $v := .Value}}{{range .Options}}
      <option value="{{.}}"{{if eq . $v}} selected{{end}}>{{.}}</option>
      {{- end}}
    </select>
    {{- else if eq .Widget "button"}}
    <button class="config" id="{{.Name}}" type="button">{{.Label}}</button>
    {{- else}}
    <input class="config" id="{{.Name}}" type="{{.Widget}}" value="{{.Value}}">
    {{- end}}
  </div>
{{- end}}
</section>
`))

func render(w io.Writer, m Module) error {
	return markup.Execute(w, m)
}

// DefaultModules returns the demo catalog: four effects with a spread of
// tweak kinds, including one control the console does not support.
func DefaultModules() []Module {
	return []Module{
		{Name: "elasticbubbles", Params: []Param{
			{Name: "count", Label: "Bubble count", Widget: "range", Min: 1, Max: 200, Step: 1, Value: "40"},
			{Name: "elasticity", Label: "Elasticity", Widget: "range", Min: 0, Max: 1, Step: 0.05, Value: "0.6"},
			{Name: "bubble_color", Label: "Bubble color", Widget: "color", Value: "#3fa9f5"},
			{Name: "pop", Label: "Pop all", Widget: "button"},
		}},
		{Name: "texteffects", Params: []Param{
			{Name: "message", Label: "Message", Widget: "text", Value: "hello"},
			{Name: "font", Label: "Font", Widget: "select", Options: []string{"mono", "serif", "sans"}, Value: "mono"},
			{Name: "ink", Label: "Ink", Widget: "color", Value: "#ffffff"},
			{Name: "scroll_speed", Label: "Scroll speed", Widget: "range", Min: 0, Max: 10, Step: 1, Value: "3"},
		}},
		{Name: "rainbow", Params: []Param{
			{Name: "speed", Label: "Speed", Widget: "range", Min: 0, Max: 10, Step: 1, Value: "5"},
			{Name: "hue", Label: "Hue", Widget: "color", Value: "#ff0000"},
			{Name: "palette", Label: "Palette", Widget: "select", Options: []string{"warm", "cold", "neon"}, Value: "warm"},
			{Name: "burst", Label: "Burst", Widget: "button"},
			{Name: "mirror", Label: "Mirror", Widget: "checkbox", Value: "off"},
		}},
		{Name: "swirl", Params: []Param{
			{Name: "twist", Label: "Twist", Widget: "range", Min: -5, Max: 5, Step: 0.5, Value: "1"},
			{Name: "arms", Label: "Arms", Widget: "range", Min: 1, Max: 12, Step: 1, Value: "4"},
			{Name: "tint", Label: "Tint", Widget: "color", Value: "#8a2be2"},
			{Name: "reverse", Label: "Reverse", Widget: "button"},
		}},
	}
}
