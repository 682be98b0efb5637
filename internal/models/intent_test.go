package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		kind    IntentKind
		item    string
		qty     *int
	}{
		{"add with numeric qty", `{"intent":"add","item":"Milk","qty":2}`, IntentAdd, "Milk", intPtr(2)},
		{"qty as string with unit", `{"intent":"remove","item":"rice","qty":"3 kg"}`, IntentRemove, "rice", intPtr(3)},
		{"qty as number word", `{"intent":"set_qty","item":"eggs","qty":"six"}`, IntentSetQty, "eggs", intPtr(6)},
		{"unparseable qty string", `{"intent":"add","item":"eggs","qty":"some"}`, IntentAdd, "eggs", nil},
		{"case-insensitive intent", `{"intent":" CLEAR "}`, IntentClear, "", nil},
		{"unknown intent name", `{"intent":"dance","item":"milk"}`, IntentUnknown, "", nil},
		{"missing intent", `{"item":"milk"}`, IntentUnknown, "", nil},
		{"item of wrong type", `{"intent":"add","item":42}`, IntentUnknown, "", nil},
		{"qty of wrong type", `{"intent":"add","item":"milk","qty":[1]}`, IntentUnknown, "", nil},
		{"huge numeric qty", `{"intent":"add","item":"eggs","qty":1e20}`, IntentAdd, "eggs", intPtr(MaxQty)},
		{"huge negative qty", `{"intent":"remove","item":"eggs","qty":-1e20}`, IntentRemove, "eggs", intPtr(-MaxQty)},
		{"huge qty string", `{"intent":"add","item":"eggs","qty":"99999999999999999999 dozen"}`, IntentAdd, "eggs", intPtr(MaxQty)},
		{"negative qty string", `{"intent":"remove","item":"milk","qty":"-3"}`, IntentRemove, "milk", intPtr(-3)},
		{"substitute of wrong type", `{"intent":"replace","item":"milk","substitute":"oat milk"}`, IntentUnknown, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in Intent
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &in))
			assert.Equal(t, tt.kind, in.Kind)
			assert.Equal(t, tt.item, in.Item)
			assert.Equal(t, tt.qty, in.Qty)
		})
	}
}

func TestIntentUnmarshalNotObject(t *testing.T) {
	var in Intent
	err := json.Unmarshal([]byte(`["add"]`), &in)
	assert.ErrorIs(t, err, ErrIntentNotObject)

	err = json.Unmarshal([]byte(`{"intent":`), &in)
	assert.Error(t, err)
}

func TestIntentPriceFilterAndSubstitute(t *testing.T) {
	var in Intent
	payload := `{"intent":"search","item":"soap","price_filter":{"min":50,"max":150},"substitute":{"suggest":true,"alternatives":[" ","oat milk"]},"confidence":0.8}`
	require.NoError(t, json.Unmarshal([]byte(payload), &in))

	require.NotNil(t, in.PriceFilter)
	assert.Equal(t, 50.0, *in.PriceFilter.Min)
	assert.Equal(t, 150.0, *in.PriceFilter.Max)
	alt, ok := in.Substitute.First()
	assert.True(t, ok)
	assert.Equal(t, "oat milk", alt)
	require.NotNil(t, in.Confidence)
	assert.InDelta(t, 0.8, *in.Confidence, 1e-9)

	var empty Intent
	require.NoError(t, json.Unmarshal([]byte(`{"intent":"search","price_filter":{}}`), &empty))
	assert.Nil(t, empty.PriceFilter)
}

func TestPurchaseHistoryJSON(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	h := NewPurchaseHistory()
	h.Record("Milk", 2, at)
	h.Record("milk", 0, at.Add(time.Hour))

	data, err := json.Marshal(h)
	require.NoError(t, err)

	var flat map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, 3.0, flat["milk"])
	assert.Contains(t, flat, "last-purchased:milk")

	var back PurchaseHistory
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 3, back.Counts["milk"])
	assert.True(t, back.LastPurchased["milk"].Equal(at.Add(time.Hour)))
}

func TestPurchaseHistorySkipsForeignEntries(t *testing.T) {
	var h PurchaseHistory
	require.NoError(t, json.Unmarshal([]byte(`{"bread":2,"last-purchased:bread":"not a time","eggs":"many"}`), &h))
	assert.Equal(t, map[string]int{"bread": 2}, h.Counts)
	assert.Empty(t, h.LastPurchased)
}

func TestPriceLabel(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Soap","price":42.5}`), &p))
	assert.Equal(t, "42.50", p.DisplayPrice())

	inr := 65.0
	p = Product{Name: "Milk", PriceINR: &inr}
	assert.Equal(t, "₹65.00", p.DisplayPrice())
}

func intPtr(v int) *int { return &v }

func TestQtyArithmeticSaturates(t *testing.T) {
	assert.Equal(t, 5, ClampQty(5))
	assert.Equal(t, MaxQty, ClampQty(int(^uint(0)>>1)))
	assert.Equal(t, -MaxQty, ClampQty(-int(^uint(0)>>1)-1))

	assert.Equal(t, 7, AddQty(3, 4))
	assert.Equal(t, MaxQty, AddQty(MaxQty, 1))
	assert.Equal(t, MaxQty, AddQty(int(^uint(0)>>1), int(^uint(0)>>1)))
	assert.Equal(t, 0, AddQty(2, -5))

	h := NewPurchaseHistory()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h.Record("apples", int(^uint(0)>>1), at)
	h.Record("apples", 1, at)
	assert.Equal(t, MaxQty, h.Counts["apples"])
}
