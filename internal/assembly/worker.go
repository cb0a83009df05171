// Package assembly implements the outfit assembly worker: the state
// machine that resolves each required slot of a style plan by racing
// product sources under nested timeouts, scoring candidates, relaxing
// constraints when starved, and emitting partial snapshots as soon as a
// minimum viable look exists.
package assembly

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/look-composer/internal/aggregate"
	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/currency"
	"github.com/jonathan/look-composer/internal/jobstore"
	"github.com/jonathan/look-composer/internal/narration"
	"github.com/jonathan/look-composer/internal/ranking"
	"github.com/jonathan/look-composer/internal/sources"
)

// Budgets holds the nested wall-clock bounds: every retailer call, every
// slot search, and the job as a whole each have an explicit upper bound.
type Budgets struct {
	PerRetailer time.Duration
	PerSlot     time.Duration
	Global      time.Duration
}

// DefaultBudgets returns the production timeout configuration.
func DefaultBudgets() Budgets {
	return Budgets{
		PerRetailer: 4 * time.Second,
		PerSlot:     10 * time.Second,
		Global:      45 * time.Second,
	}
}

// candidatesPerSlot is how many deduplicated candidates a slot search asks
// the sources for.
const candidatesPerSlot = 12

// Worker assembles looks. It is the sole writer for the jobs it creates.
type Worker struct {
	Adapters  []sources.Adapter // live sources in retailer priority order
	Seed      sources.Adapter   // backstop catalog for the relaxation pass
	Store     jobstore.Store
	Budgets   Budgets
	Heartbeat time.Duration
	Logger    zerolog.Logger
}

// NewWorker creates a worker with default budgets and a seed backstop.
func NewWorker(adapters []sources.Adapter, store jobstore.Store, logger zerolog.Logger) *Worker {
	return &Worker{
		Adapters:  adapters,
		Seed:      sources.NewSeedCatalogAdapter(),
		Store:     store,
		Budgets:   DefaultBudgets(),
		Heartbeat: 5 * time.Second,
		Logger:    logger.With().Str("component", "assembly").Logger(),
	}
}

// Assemble runs the full state machine for one plan. A malformed plan is
// rejected with an error before any job exists; everything after that is
// absorbed into the returned LookResponse, which is never nil on a nil
// error. Identical plans short-circuit to the cached result.
func (w *Worker) Assemble(ctx context.Context, plan *catalog.StylePlan) (*catalog.LookResponse, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	fingerprint := catalog.Fingerprint(plan)

	// Read-before-write: identical plans skip assembly entirely
	if cached, err := w.Store.GetCached(ctx, fingerprint); err == nil && cached != nil {
		w.Logger.Info().Str("fingerprint", fingerprint).Msg("result cache hit, skipping assembly")
		hit := *cached
		hit.LookID = plan.LookID
		return &hit, nil
	}

	job := jobstore.NewJob(plan.LookID, fingerprint)
	job.Status = catalog.StatusRunning

	var jobMu sync.Mutex
	putJob := func() {
		jobMu.Lock()
		defer jobMu.Unlock()
		job.Touch()
		if err := w.Store.Put(ctx, job); err != nil {
			w.Logger.Warn().Err(err).Msg("job persistence failed")
		}
	}
	putJob()

	stopHeartbeat := w.startHeartbeat(ctx, putJob)
	defer stopHeartbeat()

	globalCtx, cancel := context.WithTimeout(ctx, w.Budgets.Global)
	defer cancel()

	filled := make(map[string]catalog.Product)

	recordError := func(retailer, slot, message string) {
		jobMu.Lock()
		defer jobMu.Unlock()
		job.RecordError(retailer, slot, message)
	}

	// First pass: slots in plan order, retailers raced within each slot
	for _, slot := range plan.RequiredSlots {
		if globalCtx.Err() != nil {
			break
		}

		constraint := plan.Constraint(slot)
		query := sources.Query{
			Text:       plan.QueryFor(slot),
			Slot:       slot,
			Category:   constraintCategory(constraint, slot),
			Gender:     plan.Preferences.Gender,
			Country:    plan.Preferences.Country,
			MaxResults: candidatesPerSlot,
		}

		candidates := w.raceSlot(globalCtx, query, recordError)

		jobMu.Lock()
		job.Progress[slot] = jobstore.SlotProgress{
			Attempted:  len(w.Adapters),
			Candidates: len(candidates),
			Filled:     len(candidates) > 0,
		}
		jobMu.Unlock()

		if len(candidates) > 0 {
			ranked := ranking.Rank(candidates, constraint, &plan.Preferences, plan.Currency)
			pick := ranked[0].Product
			pick.Slot = slot
			filled[slot] = pick

			// A presentable core exists: surface it without waiting for
			// the remaining slots
			if MinimumViableLook(filled) {
				snapshot := w.buildResponse(plan, filled, catalog.StatusPartial)
				jobMu.Lock()
				job.Status = catalog.StatusPartial
				job.Result = snapshot
				jobMu.Unlock()
			}
		}

		// Progress stays observable between slots, not only at heartbeat
		// ticks
		putJob()
	}

	// Relaxation pass against the seed catalog when starved
	if w.needsRelaxation(plan, filled) && globalCtx.Err() == nil {
		recordProgress := func(slot string, p jobstore.SlotProgress) {
			jobMu.Lock()
			defer jobMu.Unlock()
			job.Progress[slot] = p
		}
		w.relaxAndRefill(globalCtx, plan, filled, recordProgress)
	}

	timedOut := globalCtx.Err() != nil
	status := w.finalStatus(plan, filled, timedOut)
	response := w.buildResponse(plan, filled, status)

	jobMu.Lock()
	job.Status = status
	job.Result = response
	jobMu.Unlock()
	putJob()

	if err := w.Store.PutCached(ctx, fingerprint, response); err != nil {
		w.Logger.Warn().Err(err).Msg("result cache write failed")
	}

	return response, nil
}

// raceSlot queries every adapter in parallel, each bounded by the
// per-retailer timeout, the whole search bounded by the per-slot timeout.
// Results merge in adapter priority order and deduplicate by canonical
// URL. Timeouts and failures contribute empty results, never errors.
func (w *Worker) raceSlot(ctx context.Context, q sources.Query, recordError func(retailer, slot, message string)) []catalog.Product {
	slotCtx, cancel := context.WithTimeout(ctx, w.Budgets.PerSlot)
	defer cancel()

	perAdapter := make([][]catalog.Product, len(w.Adapters))

	g := new(errgroup.Group)
	for i, adapter := range w.Adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			perAdapter[i] = w.searchBounded(slotCtx, adapter, q, recordError)
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]bool)
	var merged []catalog.Product
	for _, items := range perAdapter {
		for _, item := range items {
			key := sources.DedupKey(item.URL, item.Brand, item.Title)
			if key == "" || key == "|" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, item)
		}
	}
	return merged
}

// searchBounded runs one adapter call, bounded by the per-retailer
// timeout. A call that exceeds its bound keeps running in the background;
// its eventual result is discarded. Adapters stay side-effect-free beyond
// their own return value, so the discard is safe.
func (w *Worker) searchBounded(ctx context.Context, adapter sources.Adapter, q sources.Query, recordError func(retailer, slot, message string)) []catalog.Product {
	type outcome struct {
		result *sources.SearchResult
		err    error
	}

	done := make(chan outcome, 1)
	go func() {
		result, err := adapter.Search(ctx, q)
		done <- outcome{result: result, err: err}
	}()

	timer := time.NewTimer(w.Budgets.PerRetailer)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			recordError(adapter.Name(), q.Slot, out.err.Error())
			w.Logger.Warn().Str("retailer", adapter.Name()).Str("slot", q.Slot).Err(out.err).Msg("adapter failed")
			return nil
		}
		if out.result == nil {
			return nil
		}
		return out.result.Items
	case <-timer.C:
		w.Logger.Debug().Str("retailer", adapter.Name()).Str("slot", q.Slot).Msg("retailer budget exceeded")
		return nil
	case <-ctx.Done():
		return nil
	}
}

// needsRelaxation is true when a non-accessory required slot is unfilled
// after the first pass, or fewer than two slots resolved overall.
func (w *Worker) needsRelaxation(plan *catalog.StylePlan, filled map[string]catalog.Product) bool {
	if len(filled) < 2 {
		return true
	}
	for _, slot := range plan.RequiredSlots {
		if slot == catalog.SlotAccessory {
			continue
		}
		if _, ok := filled[slot]; !ok {
			return true
		}
	}
	return false
}

// relaxAndRefill widens every unresolved slot's constraints and re-runs
// the search against the seed catalog only. The local catalog cannot hang,
// which guarantees the pass terminates.
func (w *Worker) relaxAndRefill(ctx context.Context, plan *catalog.StylePlan, filled map[string]catalog.Product, recordProgress func(slot string, p jobstore.SlotProgress)) {
	seed := aggregate.New([]sources.Adapter{w.Seed}, w.Logger)

	for _, slot := range plan.RequiredSlots {
		if _, ok := filled[slot]; ok {
			continue
		}

		constraint := plan.Constraint(slot)
		if constraint == nil {
			continue
		}
		relaxed := RelaxConstraints(*constraint)

		query := sources.Query{
			Text:       relaxedQueryText(relaxed),
			Slot:       slot,
			Category:   constraintCategory(&relaxed, slot),
			Gender:     plan.Preferences.Gender,
			MaxResults: candidatesPerSlot,
		}

		candidates := seed.Collect(ctx, query, candidatesPerSlot)
		recordProgress(slot, jobstore.SlotProgress{
			Attempted:  1,
			Candidates: len(candidates),
			Filled:     len(candidates) > 0,
			Relaxed:    true,
		})
		if len(candidates) == 0 {
			continue
		}

		ranked := ranking.Rank(candidates, &relaxed, &plan.Preferences, plan.Currency)
		pick := ranked[0].Product
		pick.Slot = slot
		filled[slot] = pick
	}
}

// finalStatus resolves the terminal (or lingering partial) status:
// failed only when nothing at all was selected; complete when a minimum
// viable look exists, all non-accessory required slots are filled, or the
// global timeout forces finalization.
func (w *Worker) finalStatus(plan *catalog.StylePlan, filled map[string]catalog.Product, timedOut bool) string {
	if len(filled) == 0 {
		return catalog.StatusFailed
	}
	if MinimumViableLook(filled) || timedOut {
		return catalog.StatusComplete
	}

	allNonAccessoryFilled := true
	for _, slot := range plan.RequiredSlots {
		if slot == catalog.SlotAccessory {
			continue
		}
		if _, ok := filled[slot]; !ok {
			allNonAccessoryFilled = false
		}
	}
	if allNonAccessoryFilled {
		return catalog.StatusComplete
	}
	return catalog.StatusPartial
}

// buildResponse assembles the output contract from the current selections,
// with the narrated message attached.
func (w *Worker) buildResponse(plan *catalog.StylePlan, filled map[string]catalog.Product, status string) *catalog.LookResponse {
	response := &catalog.LookResponse{
		LookID:       plan.LookID,
		Status:       status,
		Currency:     plan.Currency,
		Slots:        []catalog.Product{},
		MissingSlots: []string{},
	}

	total := 0.0
	priced := false
	for _, slot := range plan.RequiredSlots {
		product, ok := filled[slot]
		if !ok {
			response.MissingSlots = append(response.MissingSlots, slot)
			continue
		}
		response.Slots = append(response.Slots, product)
		if converted := product.PriceOf(plan.Currency, currency.Convert); converted != nil {
			total += *converted
			priced = true
		}
	}
	if priced {
		response.TotalPrice = &total
	}

	if status == catalog.StatusFailed || len(response.Slots) == 0 {
		response.Message = narration.Sanitize(narration.RenderBlueprint(plan))
		response.Note = "no live products could be sourced"
	} else {
		response.Message = narration.Sanitize(narration.RenderLook(plan, response))
	}

	return response
}

// startHeartbeat periodically re-persists the job so an external observer
// never sees a stale-looking record during long searches.
func (w *Worker) startHeartbeat(ctx context.Context, putJob func()) func() {
	if w.Heartbeat <= 0 {
		return func() {}
	}

	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(w.Heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				putJob()
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(stop) }) }
}

func constraintCategory(c *catalog.SlotConstraint, slot string) string {
	if c != nil && c.Category != "" {
		return c.Category
	}
	return slot
}

func relaxedQueryText(c catalog.SlotConstraint) string {
	parts := make([]string, 0, len(c.Keywords)+1)
	if c.Category != "" {
		parts = append(parts, c.Category)
	}
	parts = append(parts, c.Keywords...)
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
