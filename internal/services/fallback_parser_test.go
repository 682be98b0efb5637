package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/voicelist/internal/models"
)

func TestFallbackParserAdd(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		phrase   string
		name     string
		qty      int
		category string
	}{
		{"add two apples", "apples", 2, "Produce"},
		{"Add 3 Bananas", "bananas", 3, "Produce"},
		{"buy eggs x 12", "eggs", 12, OtherCategory},
		{"i need bread", "bread", 1, "Bakery"},
		{"chocolate", "chocolate", 1, "Snacks"},
		{"hello world", "hello world", 1, OtherCategory},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			s, _ := newTestStore(t)
			p := NewFallbackParser(s, nil)
			res := &models.CommandResult{}

			require.NoError(t, p.Apply(ctx, testOwner, tt.phrase, res))

			items, err := s.Items(ctx, testOwner)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, tt.name, items[0].Name)
			assert.Equal(t, tt.qty, items[0].Qty)
			assert.Equal(t, tt.category, items[0].Category)

			assert.Equal(t, []models.Action{{Op: models.OpAdd, Item: tt.name, Qty: tt.qty}}, res.Actions)
		})
	}
}

func TestFallbackParserSplitsConjunctions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	p := NewFallbackParser(s, nil)
	res := &models.CommandResult{}

	require.NoError(t, p.Apply(ctx, testOwner, "buy milk and 2 bread and butter", res))

	items, err := s.Items(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "bread", "butter"}, itemNames(items))
	assert.Equal(t, 2, items[1].Qty)

	require.Len(t, res.Actions, 3)
	require.Len(t, res.Proposals, 2)
	assert.Equal(t, "milk", res.Proposals[0].Item)
	assert.Equal(t, []string{"margarine"}, res.Proposals[1].Alternatives)
}

func TestFallbackParserEditing(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	p := NewFallbackParser(s, nil)

	seed := func(name string, qty int) {
		_, err := s.AddItem(ctx, testOwner, name, qty)
		require.NoError(t, err)
	}
	seed("milk", 1)
	seed("apples", 5)
	seed("brown bread", 1)

	res := &models.CommandResult{}
	require.NoError(t, p.Apply(ctx, testOwner, "replace milk with oat milk", res))
	require.NoError(t, p.Apply(ctx, testOwner, "set apples to 4", res))
	require.NoError(t, p.Apply(ctx, testOwner, "remove 3 apples", res))
	require.NoError(t, p.Apply(ctx, testOwner, "remove bread", res))

	assert.Equal(t, []models.Action{
		{Op: models.OpRename, Item: "milk", Target: "oat milk"},
		{Op: models.OpSetQty, Item: "apples", Qty: 4},
		{Op: models.OpDecrement, Item: "apples", Qty: 3},
		{Op: models.OpRemove, Item: "brown bread"},
	}, res.Actions)

	items, err := s.Items(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "oat milk", items[0].Name)
	assert.Equal(t, "Dairy", items[0].Category)
	assert.Equal(t, "apples", items[1].Name)
	assert.Equal(t, 1, items[1].Qty)
}

func TestFallbackParserMissingTargets(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	p := NewFallbackParser(s, nil)
	res := &models.CommandResult{}

	require.NoError(t, p.Apply(ctx, testOwner, "remove eggs", res))
	require.NoError(t, p.Apply(ctx, testOwner, "set rice to 2", res))
	require.NoError(t, p.Apply(ctx, testOwner, "delete 2 onions", res))

	assert.Equal(t, []models.Action{
		{Op: models.OpNoop, Item: "eggs"},
		{Op: models.OpNoop, Item: "rice"},
		{Op: models.OpNoop, Item: "onions"},
	}, res.Actions)

	items, err := s.Items(ctx, testOwner)
	require.NoError(t, err)
	assert.Empty(t, items)

	// replacing something absent adds the replacement
	res = &models.CommandResult{}
	require.NoError(t, p.Apply(ctx, testOwner, "swap sugar with honey", res))
	items, err = s.Items(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, []string{"honey"}, itemNames(items))
}

func TestFallbackParserClear(t *testing.T) {
	ctx := context.Background()

	for _, phrase := range []string{"remove all", "Clear", "empty list", "delete all"} {
		s, _ := newTestStore(t)
		p := NewFallbackParser(s, nil)
		_, err := s.AddItem(ctx, testOwner, "milk", 1)
		require.NoError(t, err)

		res := &models.CommandResult{}
		require.NoError(t, p.Apply(ctx, testOwner, phrase, res))

		items, err := s.Items(ctx, testOwner)
		require.NoError(t, err)
		assert.Empty(t, items, phrase)
		assert.Equal(t, []models.Action{{Op: models.OpClear}}, res.Actions)
	}
}

func TestFallbackParserBlankAndNilResult(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	p := NewFallbackParser(s, nil)

	require.NoError(t, p.Apply(ctx, testOwner, "   ", nil))
	require.NoError(t, p.Apply(ctx, testOwner, "add milk", nil))

	items, err := s.Items(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, []string{"milk"}, itemNames(items))
}

func TestFallbackParserHugeQuantities(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	p := NewFallbackParser(s, nil)

	require.NoError(t, p.Apply(ctx, testOwner, "add 9223372036854775807 apples", nil))
	require.NoError(t, p.Apply(ctx, testOwner, "add 1 apples", nil))
	require.NoError(t, p.Apply(ctx, testOwner, "add 99999999999999999999 apples", nil))

	items, err := s.Items(ctx, testOwner)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.MaxQty, items[0].Qty)

	h, err := s.History(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, models.MaxQty, h.Counts["apples"])

	v, _, err := s.AdjustQty(ctx, testOwner, "apples", -int(^uint(0)>>1)-1)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestAddThenRemoveRestoresList(t *testing.T) {
	ctx := context.Background()

	seeded := []models.ListItem{
		{Name: "milk", Qty: 2, Category: "Dairy", AddedAt: fixedNow.Add(-time.Hour)},
		{Name: "brown bread", Qty: 1, Category: "Bakery", AddedAt: fixedNow.Add(-time.Minute)},
		{Name: "soap", Qty: 0, Category: "Household", AddedAt: fixedNow.Add(-time.Second)},
	}

	for _, tt := range []struct{ add, remove string }{
		{"add 3 apples", "remove apples"},
		{"add two bananas", "delete bananas"},
		{"buy eggs x 12", "remove 12 eggs"},
	} {
		t.Run(tt.add, func(t *testing.T) {
			s, _ := newTestStore(t)
			require.NoError(t, s.ReplaceItems(ctx, testOwner, seeded))

			p := NewFallbackParser(s, nil)
			require.NoError(t, p.Apply(ctx, testOwner, tt.add, nil))
			require.NoError(t, p.Apply(ctx, testOwner, tt.remove, nil))

			items, err := s.Items(ctx, testOwner)
			require.NoError(t, err)
			assert.Equal(t, seeded, items)
		})
	}

	t.Run("dispatcher", func(t *testing.T) {
		d, s := newTestDispatcher(t, nil, nil)
		require.NoError(t, s.ReplaceItems(ctx, testOwner, seeded))

		dispatch(t, d, "add chocolate")
		dispatch(t, d, "remove chocolate")

		items, err := s.Items(ctx, testOwner)
		require.NoError(t, err)
		assert.Equal(t, seeded, items)
	})
}
