package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/foxxcyber/voicelist/internal/logging"
	"github.com/foxxcyber/voicelist/internal/models"
)

var ErrDispatchBusy = errors.New("list is busy with another command")

// DispatcherConfig tunes how transcripts are interpreted
type DispatcherConfig struct {
	// intents below this confidence are treated as unknown
	MinConfidence float64
	DefaultLang   string
	// one command per owner at a time; false lets commands interleave
	Serialize bool
}

// Dispatcher turns a final transcript into list mutations or a product search.
// Price-filter phrases go straight to search; everything else is resolved by the
// NLU service, falling back to the local parser when it fails or is unsure.
type Dispatcher struct {
	store    *ListStore
	detector *PriceFilterDetector
	resolver IntentResolver
	searcher ProductSearcher
	fallback *FallbackParser
	cfg      DispatcherConfig
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*semaphore.Weighted
}

// NewDispatcher wires the interpreters together. A nil resolver sends every
// phrase to the local parser; a nil searcher makes searches report failure.
func NewDispatcher(store *ListStore, resolver IntentResolver, searcher ProductSearcher, cfg DispatcherConfig, logger *zap.Logger) *Dispatcher {
	logger = logging.OrNop(logger)
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = "en-IN"
	}
	return &Dispatcher{
		store:    store,
		detector: NewPriceFilterDetector(),
		resolver: resolver,
		searcher: searcher,
		fallback: NewFallbackParser(store, logger),
		cfg:      cfg,
		logger:   logger,
		locks:    make(map[string]*semaphore.Weighted),
	}
}

// lockFor returns the owner's semaphore. Entries are never evicted; one small
// struct per owner seen since start is kept for the life of the process.
func (d *Dispatcher) lockFor(owner string) *semaphore.Weighted {
	d.mu.Lock()
	defer d.mu.Unlock()

	sem, ok := d.locks[owner]
	if !ok {
		sem = semaphore.NewWeighted(1)
		d.locks[owner] = sem
	}
	return sem
}

// Dispatch interprets one command. The returned result carries the applied actions
// and the re-rendered list; only store failures and a cancelled wait are errors.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd models.Command) (*models.CommandResult, error) {
	return d.run(ctx, cmd, d.interpret)
}

// DispatchLocal interprets a typed phrase with the local parser only
func (d *Dispatcher) DispatchLocal(ctx context.Context, cmd models.Command) (*models.CommandResult, error) {
	return d.run(ctx, cmd, d.applyFallback)
}

func (d *Dispatcher) run(ctx context.Context, cmd models.Command, interpret func(context.Context, string, *models.CommandResult) error) (*models.CommandResult, error) {
	if d.cfg.Serialize {
		sem := d.lockFor(cmd.Owner)
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDispatchBusy, err)
		}
		defer sem.Release(1)
	}

	lang := cmd.Lang
	if lang == "" || !models.IsSupportedLanguage(lang) {
		lang = d.cfg.DefaultLang
	}

	res := &models.CommandResult{
		ID:         uuid.NewString(),
		Transcript: strings.TrimSpace(cmd.Transcript),
		Lang:       lang,
		Source:     models.SourceFallback,
		Actions:    []models.Action{},
	}

	if res.Transcript != "" {
		if err := interpret(ctx, cmd.Owner, res); err != nil {
			return nil, err
		}
	}

	list, err := d.store.RenderOwner(ctx, cmd.Owner)
	if err != nil {
		return nil, err
	}
	res.List = list

	d.logger.Info("command dispatched",
		zap.String("id", res.ID),
		zap.String("owner", cmd.Owner),
		zap.String("source", string(res.Source)),
		zap.Int("actions", len(res.Actions)),
	)
	return res, nil
}

func (d *Dispatcher) interpret(ctx context.Context, owner string, res *models.CommandResult) error {
	if q := d.detector.Detect(res.Transcript); q != nil {
		res.Source = models.SourcePriceFilter
		d.search(ctx, q, res)
		return nil
	}

	if d.resolver == nil {
		return d.applyFallback(ctx, owner, res)
	}

	intent, err := d.resolver.Resolve(ctx, res.Transcript, res.Lang)
	if err != nil {
		kind, _ := ResolveErrorKindOf(err)
		if kind != ResolveDisabled {
			d.logger.Warn("nlu failed, using local parser",
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
		return d.applyFallback(ctx, owner, res)
	}

	return d.applyIntent(ctx, owner, intent, res)
}

func (d *Dispatcher) applyFallback(ctx context.Context, owner string, res *models.CommandResult) error {
	res.Source = models.SourceFallback
	return d.fallback.Apply(ctx, owner, res.Transcript, res)
}

// applyIntent maps a structured intent onto the list. Branches are checked in
// order and the first that applies is the only one that runs.
func (d *Dispatcher) applyIntent(ctx context.Context, owner string, intent *models.Intent, res *models.CommandResult) error {
	if intent == nil || intent.Kind == models.IntentUnknown {
		return d.applyFallback(ctx, owner, res)
	}
	if intent.Confidence != nil && *intent.Confidence < d.cfg.MinConfidence {
		d.logger.Debug("nlu intent below confidence floor",
			zap.String("intent", string(intent.Kind)),
			zap.Float64("confidence", *intent.Confidence),
		)
		return d.applyFallback(ctx, owner, res)
	}

	res.Source = models.SourceNLU
	item := strings.TrimSpace(intent.Item)

	if intent.Kind == models.IntentAdd && item != "" {
		qty := 1
		if intent.HasQty() && *intent.Qty > 0 {
			qty = *intent.Qty
		}
		added, err := d.store.AddItem(ctx, owner, item, qty)
		if err != nil {
			return err
		}
		if added {
			res.Record(models.Action{Op: models.OpAdd, Item: item, Qty: qty})
			res.Propose(item, d.store.Catalog().Substitutes(item))
		}
		return nil
	}

	if intent.Kind == models.IntentRemove && item != "" {
		// a zero or negative count removes the whole entry
		if intent.HasQty() && *intent.Qty > 0 {
			_, found, err := d.store.DecrementItem(ctx, owner, item, *intent.Qty)
			if err != nil {
				return err
			}
			recordFound(res, found, models.Action{Op: models.OpDecrement, Item: item, Qty: *intent.Qty})
			return nil
		}
		found, err := d.store.RemoveItem(ctx, owner, item)
		if err != nil {
			return err
		}
		recordFound(res, found, models.Action{Op: models.OpRemove, Item: item})
		return nil
	}

	if intent.Kind == models.IntentReplace && item != "" {
		if alt, ok := intent.Substitute.First(); ok {
			return d.fallback.Apply(ctx, owner, "replace "+item+" with "+alt, res)
		}
	}

	if intent.Kind == models.IntentSetQty && item != "" && intent.HasQty() {
		found, err := d.store.SetQty(ctx, owner, item, *intent.Qty)
		if err != nil {
			return err
		}
		recordFound(res, found, models.Action{Op: models.OpSetQty, Item: item, Qty: *intent.Qty})
		return nil
	}

	if intent.Kind == models.IntentClear {
		if err := d.store.Clear(ctx, owner); err != nil {
			return err
		}
		res.Record(models.Action{Op: models.OpClear})
		return nil
	}

	if intent.Kind == models.IntentSearch || intent.PriceFilter != nil {
		d.search(ctx, d.searchIntent(item, intent.PriceFilter, res), res)
		return nil
	}

	if intent.Substitute != nil && intent.Substitute.Suggest && len(intent.Substitute.Alternatives) > 0 {
		res.Propose(item, intent.Substitute.Alternatives)
		res.Record(models.Action{Op: models.OpPropose, Item: item})
		return nil
	}

	res.Record(models.Action{Op: models.OpNoop, Item: item})
	return nil
}

// searchIntent rebuilds a price-filter phrase from the intent and runs it through
// the detector. When the phrase does not resolve, the bounds are used as given.
func (d *Dispatcher) searchIntent(item string, bounds *models.PriceBounds, res *models.CommandResult) *models.PriceFilterQuery {
	base := res.Transcript
	if item != "" {
		base = "find " + item
	}
	if q := d.detector.Detect(SynthesizePhrase(base, bounds)); q != nil {
		return q
	}

	q := &models.PriceFilterQuery{Q: item}
	if q.Q == "" {
		q.Q = res.Transcript
	}
	if bounds != nil {
		q.MinPrice = bounds.Min
		q.MaxPrice = bounds.Max
	}
	return q
}

// search runs q and stores the outcome on res. Search failures become a status
// message rather than an error.
func (d *Dispatcher) search(ctx context.Context, q *models.PriceFilterQuery, res *models.CommandResult) {
	res.Record(models.Action{Op: models.OpSearch, Item: q.Q})
	outcome := &models.SearchOutcome{Query: *q, Products: []models.Product{}}
	res.Search = outcome

	if d.searcher == nil {
		outcome.Status = models.SearchStatusFailed
		return
	}

	resp, err := d.searcher.Search(ctx, &models.ProductSearchParams{
		Q:        q.Q,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Brand:    q.BrandName(),
		Limit:    models.SearchLimit,
	})
	if err != nil {
		d.logger.Warn("product search failed", zap.String("q", q.Q), zap.Error(err))
		outcome.Status = models.SearchStatusFailed
		return
	}
	if len(resp.Items) == 0 {
		outcome.Status = models.SearchStatusNoResults
		return
	}
	outcome.Products = resp.Items
	outcome.Status = models.SearchStatusOK
}

func recordFound(res *models.CommandResult, found bool, a models.Action) {
	if !found {
		res.Record(models.Action{Op: models.OpNoop, Item: a.Item})
		return
	}
	res.Record(a)
}
