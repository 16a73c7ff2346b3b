package tweak

import "strings"

// Kind is the semantic type of a tweak, inferred from its rendered widget.
type Kind int

const (
	KindUnknown Kind = iota
	KindRange        // numeric-range slider
	KindSelect       // selectable string
	KindText         // free-text string
	KindColor        // color picker, hex text form
	KindAction       // momentary action, no persisted value
)

func (k Kind) String() string {
	switch k {
	case KindRange:
		return "range"
	case KindSelect:
		return "select"
	case KindText:
		return "text"
	case KindColor:
		return "color"
	case KindAction:
		return "action"
	default:
		return "unknown"
	}
}

// Channel is the typed write channel on the remote engine.
type Channel string

const (
	ChannelNone   Channel = ""
	ChannelNumber Channel = "number"
	ChannelString Channel = "string"
	ChannelColor  Channel = "color"
	ChannelAction Channel = "action"
)

// Channel returns the write channel for the kind. KindUnknown has none.
func (k Kind) Channel() Channel {
	switch k {
	case KindRange:
		return ChannelNumber
	case KindSelect, KindText:
		return ChannelString
	case KindColor:
		return ChannelColor
	case KindAction:
		return ChannelAction
	default:
		return ChannelNone
	}
}

// Valued reports whether controls of this kind carry a value.
func (k Kind) Valued() bool {
	return k != KindAction && k != KindUnknown
}

// Widget is the rendered kind indicator of a control: its element tag and
// type attribute, both lower-cased.
type Widget struct {
	Tag  string
	Type string
}

func (w Widget) String() string {
	if w.Type == "" {
		return w.Tag
	}
	return w.Tag + "[type=" + w.Type + "]"
}

// Classify maps a widget to its Kind. Every widget maps to exactly one Kind;
// anything not listed is KindUnknown. An <input> without a type is text.
func Classify(w Widget) Kind {
	tag := strings.ToLower(w.Tag)
	typ := strings.ToLower(w.Type)
	switch tag {
	case "select":
		return KindSelect
	case "button":
		// <button> defaults to submit; only explicit non-button types are rejected.
		if typ == "" || typ == "button" {
			return KindAction
		}
		return KindUnknown
	case "input":
		switch typ {
		case "range":
			return KindRange
		case "text", "":
			// An input without a type is a text input.
			return KindText
		case "color":
			return KindColor
		case "button":
			return KindAction
		}
	}
	return KindUnknown
}
