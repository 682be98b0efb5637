package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// IntentKind is the action named by the NLU service
type IntentKind string

const (
	IntentAdd     IntentKind = "add"
	IntentRemove  IntentKind = "remove"
	IntentReplace IntentKind = "replace"
	IntentSetQty  IntentKind = "set_qty"
	IntentClear   IntentKind = "clear"
	IntentSearch  IntentKind = "search"
	IntentUnknown IntentKind = "unknown"
)

var knownIntents = map[IntentKind]bool{
	IntentAdd:     true,
	IntentRemove:  true,
	IntentReplace: true,
	IntentSetQty:  true,
	IntentClear:   true,
	IntentSearch:  true,
	IntentUnknown: true,
}

// NumberWords maps spoken number words to their values
var NumberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// SubstituteSuggestion is the substitute block of an intent
type SubstituteSuggestion struct {
	Suggest      bool     `json:"suggest"`
	Alternatives []string `json:"alternatives"`
}

// First returns the first alternative, if any.
func (s *SubstituteSuggestion) First() (string, bool) {
	if s == nil {
		return "", false
	}
	for _, alt := range s.Alternatives {
		if alt = strings.TrimSpace(alt); alt != "" {
			return alt, true
		}
	}
	return "", false
}

// PriceBounds is the price_filter block of an intent
type PriceBounds struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Intent is the structured interpretation of one phrase. It is built once per
// utterance and never persisted.
type Intent struct {
	Kind        IntentKind            `json:"intent"`
	Item        string                `json:"item,omitempty"`
	Qty         *int                  `json:"qty,omitempty"`
	Substitute  *SubstituteSuggestion `json:"substitute,omitempty"`
	PriceFilter *PriceBounds          `json:"price_filter,omitempty"`
	Confidence  *float64              `json:"confidence,omitempty"`
}

// UnknownIntent returns the intent used when nothing could be understood.
func UnknownIntent() Intent {
	return Intent{Kind: IntentUnknown}
}

// HasQty reports whether the intent carries a numeric quantity.
func (i Intent) HasQty() bool {
	return i.Qty != nil
}

var ErrIntentNotObject = errors.New("intent payload is not a JSON object")

type rawIntent struct {
	Intent      json.RawMessage `json:"intent"`
	Item        json.RawMessage `json:"item"`
	Qty         json.RawMessage `json:"qty"`
	Substitute  json.RawMessage `json:"substitute"`
	PriceFilter json.RawMessage `json:"price_filter"`
	Confidence  json.RawMessage `json:"confidence"`
}

// UnmarshalJSON validates the payload field by field. A payload that is a JSON
// object but carries an unknown intent name or a field of the wrong type decodes
// to the unknown intent instead of failing.
func (i *Intent) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrIntentNotObject
	}

	var raw rawIntent
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	parsed, ok := raw.validate()
	if !ok {
		*i = UnknownIntent()
		return nil
	}
	*i = parsed
	return nil
}

func (r rawIntent) validate() (Intent, bool) {
	var out Intent

	var kind string
	if !decodeOptional(r.Intent, &kind) {
		return out, false
	}
	out.Kind = IntentKind(strings.ToLower(strings.TrimSpace(kind)))
	if !knownIntents[out.Kind] {
		return out, false
	}

	var item string
	if !decodeOptional(r.Item, &item) {
		return out, false
	}
	out.Item = strings.TrimSpace(item)

	qty, ok := decodeQty(r.Qty)
	if !ok {
		return out, false
	}
	out.Qty = qty

	if !isNull(r.Substitute) {
		var sub SubstituteSuggestion
		if err := json.Unmarshal(r.Substitute, &sub); err != nil {
			return out, false
		}
		out.Substitute = &sub
	}

	if !isNull(r.PriceFilter) {
		var pf PriceBounds
		if err := json.Unmarshal(r.PriceFilter, &pf); err != nil {
			return out, false
		}
		if pf.Min != nil || pf.Max != nil {
			out.PriceFilter = &pf
		}
	}

	if !isNull(r.Confidence) {
		var c float64
		if err := json.Unmarshal(r.Confidence, &c); err != nil {
			return out, false
		}
		out.Confidence = &c
	}

	return out, true
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func decodeOptional(raw json.RawMessage, target interface{}) bool {
	if isNull(raw) {
		return true
	}
	return json.Unmarshal(raw, target) == nil
}

var leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

// decodeQty accepts a number or a string. Strings are read like a spoken quantity:
// a leading integer ("3 kg") or a number word ("two"). A string that holds neither
// yields no quantity; any other JSON type is malformed.
func decodeQty(raw json.RawMessage) (*int, bool) {
	if isNull(raw) {
		return nil, true
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, true
		}
		n = math.Max(-MaxQty, math.Min(MaxQty, n))
		v := int(n)
		return &v, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false
	}
	if m := leadingInt.FindStringSubmatch(s); m != nil {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			// only a range error is possible here
			v = MaxQty
			if strings.HasPrefix(m[1], "-") {
				v = -MaxQty
			}
		}
		v = ClampQty(v)
		return &v, true
	}
	if v, ok := NumberWords[strings.ToLower(strings.TrimSpace(s))]; ok {
		return &v, true
	}
	return nil, true
}

// NLURequest is the payload sent to the NLU service
type NLURequest struct {
	Phrase string `json:"phrase"`
	Lang   string `json:"lang"`
}
