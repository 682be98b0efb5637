package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/foxxcyber/voicelist/internal/logging"
	"github.com/foxxcyber/voicelist/internal/models"
)

// fallbackRule is one entry of the local command table. apply receives the
// submatches of pattern against the lowercased phrase.
type fallbackRule struct {
	name    string
	pattern *regexp.Regexp
	apply   func(ctx context.Context, owner string, m []string, res *models.CommandResult) error
}

// FallbackParser interprets a phrase with a fixed table of patterns when no
// structured intent is available. Any phrase it does not recognize is added to
// the list verbatim.
type FallbackParser struct {
	store    *ListStore
	quantity *QuantityExtractor
	logger   *zap.Logger

	rules        []fallbackRule
	addPattern   *regexp.Regexp
	splitPattern *regexp.Regexp
}

// NewFallbackParser creates a parser writing to store
func NewFallbackParser(store *ListStore, logger *zap.Logger) *FallbackParser {
	p := &FallbackParser{
		store:    store,
		quantity: NewQuantityExtractor(),
		logger:   logging.OrNop(logger),

		// "add 2 apples", "i need bread"
		addPattern:   regexp.MustCompile(`^(?:add|buy|put|i want to buy|i need)\s+(.+)$`),
		splitPattern: regexp.MustCompile(`\s+and\s+`),
	}

	p.rules = []fallbackRule{
		{
			name:    "clear",
			pattern: regexp.MustCompile(`^(?:clear|clear list|empty list|remove all|delete all)$`),
			apply:   p.applyClear,
		},
		{
			// "replace milk with almond milk"
			name:    "replace",
			pattern: regexp.MustCompile(`^(?:replace|substitute|swap)\s+(.+?)\s+(?:with|to)\s+(.+)$`),
			apply:   p.applyReplace,
		},
		{
			// "set apples to 4"
			name:    "set_qty",
			pattern: regexp.MustCompile(`^(?:set|change)\s+(.+?)\s+to\s+(\d+)\b`),
			apply:   p.applySetQty,
		},
		{
			// "remove 2 apples"
			name:    "decrement",
			pattern: regexp.MustCompile(`^(?:remove|delete)\s+(\d+)\s+(.+)$`),
			apply:   p.applyDecrement,
		},
		{
			name:    "remove",
			pattern: regexp.MustCompile(`^(?:remove|delete)\s+(.+)$`),
			apply:   p.applyRemove,
		},
	}

	return p
}

// Apply interprets phrase against the owner's list, recording what it did in res.
// Unrecognized input never fails; errors come only from the store.
func (p *FallbackParser) Apply(ctx context.Context, owner, phrase string, res *models.CommandResult) error {
	if res == nil {
		res = &models.CommandResult{}
	}

	lower := strings.ToLower(strings.TrimSpace(phrase))
	if lower == "" {
		return nil
	}

	for _, rule := range p.rules {
		if m := rule.pattern.FindStringSubmatch(lower); m != nil {
			p.logger.Debug("fallback rule matched", zap.String("rule", rule.name), zap.String("phrase", lower))
			return rule.apply(ctx, owner, m, res)
		}
	}

	rest := lower
	if m := p.addPattern.FindStringSubmatch(lower); m != nil {
		rest = strings.TrimSpace(m[1])
	}

	if strings.Contains(rest, " and ") {
		for _, part := range p.splitPattern.Split(rest, -1) {
			if err := p.Apply(ctx, owner, part, res); err != nil {
				return err
			}
		}
		return nil
	}

	q := p.quantity.Extract(rest)
	name := q.Rest
	if name == "" {
		name = rest
	}
	return p.add(ctx, owner, name, q.Qty, res)
}

func (p *FallbackParser) add(ctx context.Context, owner, name string, qty int, res *models.CommandResult) error {
	if qty <= 0 {
		qty = 1
	}
	added, err := p.store.AddItem(ctx, owner, name, qty)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}
	res.Record(models.Action{Op: models.OpAdd, Item: strings.TrimSpace(name), Qty: qty})
	res.Propose(strings.TrimSpace(name), p.store.Catalog().Substitutes(name))
	return nil
}

func (p *FallbackParser) applyClear(ctx context.Context, owner string, _ []string, res *models.CommandResult) error {
	if err := p.store.Clear(ctx, owner); err != nil {
		return err
	}
	res.Record(models.Action{Op: models.OpClear})
	return nil
}

func (p *FallbackParser) applyReplace(ctx context.Context, owner string, m []string, res *models.CommandResult) error {
	from, to := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	renamed, err := p.store.RenameItem(ctx, owner, from, to)
	if err != nil {
		return err
	}
	if renamed {
		res.Record(models.Action{Op: models.OpRename, Item: from, Target: to})
		return nil
	}
	return p.Apply(ctx, owner, "add "+to, res)
}

func (p *FallbackParser) applySetQty(ctx context.Context, owner string, m []string, res *models.CommandResult) error {
	name := strings.TrimSpace(m[1])
	qty, err := strconv.Atoi(m[2])
	if err != nil {
		res.Record(models.Action{Op: models.OpNoop, Item: name})
		return nil
	}
	found, err := p.store.SetQty(ctx, owner, name, qty)
	if err != nil {
		return err
	}
	recordFound(res, found, models.Action{Op: models.OpSetQty, Item: name, Qty: qty})
	return nil
}

func (p *FallbackParser) applyDecrement(ctx context.Context, owner string, m []string, res *models.CommandResult) error {
	name := strings.TrimSpace(m[2])
	qty, err := strconv.Atoi(m[1])
	if err != nil {
		res.Record(models.Action{Op: models.OpNoop, Item: name})
		return nil
	}
	_, found, err := p.store.DecrementItem(ctx, owner, name, qty)
	if err != nil {
		return err
	}
	recordFound(res, found, models.Action{Op: models.OpDecrement, Item: name, Qty: qty})
	return nil
}

func (p *FallbackParser) applyRemove(ctx context.Context, owner string, m []string, res *models.CommandResult) error {
	name := strings.TrimSpace(m[1])
	removed, found, err := p.store.RemoveMatching(ctx, owner, name)
	if err != nil {
		return err
	}
	if !found {
		res.Record(models.Action{Op: models.OpNoop, Item: name})
		return nil
	}
	res.Record(models.Action{Op: models.OpRemove, Item: removed})
	return nil
}
