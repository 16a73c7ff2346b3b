package tweak

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidValue is returned when a value cannot be represented by a control.
	ErrInvalidValue = errors.New("invalid tweak value")
	// ErrUnknownTweak is returned when no bound control has the requested name.
	ErrUnknownTweak = errors.New("unknown tweak")
)

// Control is the rendered representation of exactly one tweak.
type Control struct {
	Name   string
	Kind   Kind
	Widget Widget
	Label  string
	// Value is the control's native text form: a decimal number for ranges,
	// #rrggbb for colors, the raw string otherwise. Empty for actions.
	Value string

	// Range bounds. Step is 1 when the markup omits it.
	Min, Max, Step float64

	// Options lists the selectable values of a KindSelect control.
	Options []string
}

// Normalize converts v into the control's native representation, or returns
// an error wrapping ErrInvalidValue.
func (c Control) Normalize(v string) (string, error) {
	switch c.Kind {
	case KindRange:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidValue, c.Name, v)
		}
		return c.format(c.snap(f)), nil
	case KindSelect:
		if len(c.Options) > 0 && !slices.Contains(c.Options, v) {
			return "", fmt.Errorf("%w: %q is not an option of %s", ErrInvalidValue, v, c.Name)
		}
		return v, nil
	case KindText:
		return v, nil
	case KindColor:
		hex := normalizeHex(v)
		col, err := colorful.Hex(hex)
		if err != nil || len(hex) != 7 {
			return "", fmt.Errorf("%w: %s expects #rrggbb, got %q", ErrInvalidValue, c.Name, v)
		}
		return col.Hex(), nil
	case KindAction:
		return "", nil
	default:
		return "", fmt.Errorf("%w: %s has unsupported widget %s", ErrInvalidValue, c.Name, c.Widget)
	}
}

// Nudge moves a range control by n steps, or cycles a select control by n
// options. Negative n moves down. Other kinds return the current value
// unchanged.
func (c Control) Nudge(n int) string {
	switch c.Kind {
	case KindRange:
		cur, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			cur = c.Min
		}
		return c.format(c.snap(c.snap(cur) + float64(n)*c.step()))
	case KindSelect:
		if len(c.Options) == 0 {
			return c.Value
		}
		i := slices.Index(c.Options, c.Value)
		if i < 0 {
			return c.Options[0]
		}
		size := len(c.Options)
		return c.Options[((i+n)%size+size)%size]
	}
	return c.Value
}

// Fraction returns where a range value sits between Min and Max, in [0,1].
func (c Control) Fraction() float64 {
	if c.Kind != KindRange || c.Max <= c.Min {
		return 0
	}
	f, err := strconv.ParseFloat(c.Value, 64)
	if err != nil {
		return 0
	}
	return (c.clamp(f) - c.Min) / (c.Max - c.Min)
}

func (c Control) step() float64 {
	if c.Step <= 0 {
		return 1
	}
	return c.Step
}

// snap moves f to the nearest Min + k*Step inside the range. Past Max it
// falls back to the last step that fits.
func (c Control) snap(f float64) float64 {
	step := c.step()
	v := c.Min + math.Round((f-c.Min)/step)*step
	if c.Max > c.Min && v-c.Max > step*1e-9 {
		v -= step
	}
	return c.clamp(v)
}

// format renders a range value with no more decimals than Step and Min
// carry, so float error never reaches the wire.
func (c Control) format(f float64) string {
	places := max(decimals(c.step()), decimals(c.Min))
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', places, 64), 64)
	if err != nil {
		return FormatNumber(f)
	}
	if r == 0 {
		r = 0 // drop negative zero
	}
	return FormatNumber(r)
}

func decimals(f float64) int {
	s := FormatNumber(f)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

func (c Control) clamp(f float64) float64 {
	if c.Max > c.Min {
		f = math.Max(c.Min, math.Min(c.Max, f))
	}
	return f
}

// FormatNumber renders f the way a range input reports its value: shortest
// decimal form, no exponent for ordinary magnitudes.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// normalizeHex accepts "fff", "#fff", "ff0000" and "#FF0000".
func normalizeHex(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	return "#" + strings.ToLower(v)
}
