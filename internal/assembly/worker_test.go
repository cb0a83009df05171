package assembly

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/jobstore"
	"github.com/jonathan/look-composer/internal/sources"
)

// stubAdapter serves canned items per slot, optionally after a delay.
type stubAdapter struct {
	name  string
	delay time.Duration
	err   error
	items map[string][]catalog.Product

	mu    sync.Mutex
	calls int
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Search(ctx context.Context, q sources.Query) (*sources.SearchResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &sources.SearchResult{Items: s.items[q.Slot], Source: s.name}, nil
}

func (s *stubAdapter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testPrice(v float64) *float64 { return &v }

func stubProduct(slot, title, url string, price float64) catalog.Product {
	return catalog.Product{
		ID:           catalog.ProductID(url),
		Title:        title,
		Brand:        "TestBrand",
		Retailer:     "zalando",
		Price:        testPrice(price),
		Currency:     "EUR",
		URL:          url,
		Availability: catalog.AvailabilityInStock,
		Fit:          catalog.FitDescriptor{Category: slot},
	}
}

func assemblyPlan() *catalog.StylePlan {
	return &catalog.StylePlan{
		LookID:        "look_w_001",
		RequiredSlots: []string{"anchor", "top", "bottom", "shoe"},
		PerSlot: []catalog.SlotConstraint{
			{Slot: "anchor", Category: "anchor", Keywords: []string{"blazer"}, MinPrice: 50, MaxPrice: 200},
			{Slot: "top", Category: "top", Keywords: []string{"blouse"}, MaxPrice: 100},
			{Slot: "bottom", Category: "bottom", Keywords: []string{"trousers"}, MaxPrice: 130},
			{Slot: "shoe", Category: "shoe", Keywords: []string{"loafers"}, MinPrice: 40, MaxPrice: 160},
		},
		BudgetTotal:      500,
		Currency:         "EUR",
		RetailerPriority: []string{"zalando"},
	}
}

func fullCatalog() map[string][]catalog.Product {
	return map[string][]catalog.Product{
		"anchor": {stubProduct("anchor", "Wool Blazer", "https://z.example/blazer", 150)},
		"top":    {stubProduct("top", "Silk Blouse", "https://z.example/blouse", 79)},
		"bottom": {stubProduct("bottom", "Wide Trousers", "https://z.example/trousers", 99)},
		"shoe":   {stubProduct("shoe", "Leather Loafers", "https://z.example/loafers", 120)},
	}
}

func testWorker(store jobstore.Store, adapters ...sources.Adapter) *Worker {
	return &Worker{
		Adapters: adapters,
		Seed:     sources.NewSeedCatalogAdapter(),
		Store:    store,
		Budgets: Budgets{
			PerRetailer: 50 * time.Millisecond,
			PerSlot:     200 * time.Millisecond,
			Global:      2 * time.Second,
		},
		Logger: zerolog.Nop(),
	}
}

func TestAssemble_CompleteLook(t *testing.T) {
	store := jobstore.NewMemoryStore()
	adapter := &stubAdapter{name: "zalando", items: fullCatalog()}
	w := testWorker(store, adapter)

	plan := assemblyPlan()
	resp, err := w.Assemble(context.Background(), plan)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, catalog.StatusComplete, resp.Status)
	assert.Equal(t, "look_w_001", resp.LookID)
	require.Len(t, resp.Slots, 4)
	assert.Empty(t, resp.MissingSlots)

	// Slots come back in plan order
	assert.Equal(t, "anchor", resp.Slots[0].Slot)
	assert.Equal(t, "shoe", resp.Slots[3].Slot)

	require.NotNil(t, resp.TotalPrice)
	assert.InDelta(t, 448.0, *resp.TotalPrice, 0.001)
	assert.NotEmpty(t, resp.Message)

	job, err := store.GetByFingerprint(context.Background(), catalog.Fingerprint(plan))
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, catalog.StatusComplete, job.Status)
	assert.True(t, job.Progress["shoe"].Filled)
}

// snapshotStore keeps a copy of every persisted job state so tests can
// observe what a poller would have seen mid-run.
type snapshotStore struct {
	*jobstore.MemoryStore

	mu   sync.Mutex
	puts []jobstore.Job
}

func newSnapshotStore() *snapshotStore {
	return &snapshotStore{MemoryStore: jobstore.NewMemoryStore()}
}

func (s *snapshotStore) Put(ctx context.Context, job *jobstore.Job) error {
	s.mu.Lock()
	copied := *job
	copied.Progress = make(map[string]jobstore.SlotProgress, len(job.Progress))
	for slot, p := range job.Progress {
		copied.Progress[slot] = p
	}
	s.puts = append(s.puts, copied)
	s.mu.Unlock()
	return s.MemoryStore.Put(ctx, job)
}

func TestAssemble_ProgressPersistedAfterEachSlot(t *testing.T) {
	store := newSnapshotStore()
	adapter := &stubAdapter{name: "zalando", items: fullCatalog()}
	w := testWorker(store, adapter)

	// No anchor or outerwear slot: the look never becomes minimum viable,
	// so per-slot persistence is the only way mid-run progress surfaces.
	plan := assemblyPlan()
	plan.RequiredSlots = []string{"top", "bottom", "shoe"}

	_, err := w.Assemble(context.Background(), plan)
	require.NoError(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	sawIntermediate := false
	for _, j := range store.puts {
		_, hasTop := j.Progress["top"]
		_, hasShoe := j.Progress["shoe"]
		if hasTop && !hasShoe && j.Status == catalog.StatusRunning {
			sawIntermediate = true
		}
	}
	assert.True(t, sawIntermediate, "a poller between slots must see fresh progress")
}

func TestAssemble_IdenticalPlanHitsResultCache(t *testing.T) {
	store := jobstore.NewMemoryStore()
	adapter := &stubAdapter{name: "zalando", items: fullCatalog()}
	w := testWorker(store, adapter)

	first, err := w.Assemble(context.Background(), assemblyPlan())
	require.NoError(t, err)
	callsAfterFirst := adapter.callCount()

	// Same constraints, different look id: still the same fingerprint
	replay := assemblyPlan()
	replay.LookID = "look_w_002"

	second, err := w.Assemble(context.Background(), replay)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, adapter.callCount(), "cache hit must not re-run adapters")
	assert.Equal(t, "look_w_002", second.LookID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, len(first.Slots), len(second.Slots))
}

func TestAssemble_SlowRetailerFallsBackToSeed(t *testing.T) {
	store := jobstore.NewMemoryStore()

	items := fullCatalog()
	shoeOnly := map[string][]catalog.Product{"shoe": items["shoe"]}
	delete(items, "shoe")

	fast := &stubAdapter{name: "zalando", items: items}
	slow := &stubAdapter{name: "asos", delay: 300 * time.Millisecond, items: shoeOnly}
	w := testWorker(store, fast, slow)

	resp, err := w.Assemble(context.Background(), assemblyPlan())

	require.NoError(t, err)
	assert.Equal(t, catalog.StatusComplete, resp.Status)
	assert.Empty(t, resp.MissingSlots)

	var shoe *catalog.Product
	for i := range resp.Slots {
		if resp.Slots[i].Slot == "shoe" {
			shoe = &resp.Slots[i]
		}
	}
	require.NotNil(t, shoe, "shoe slot must be filled by the relaxation pass")
	assert.Equal(t, "seed_catalog", shoe.Source)
}

func TestAssemble_PartialWhenSlotUnfillable(t *testing.T) {
	store := jobstore.NewMemoryStore()

	items := fullCatalog()
	delete(items, "shoe")
	adapter := &stubAdapter{name: "zalando", items: items}

	w := testWorker(store, adapter)
	w.Seed = &stubAdapter{name: "seed_catalog"} // backstop has nothing either

	resp, err := w.Assemble(context.Background(), assemblyPlan())

	require.NoError(t, err)
	assert.Equal(t, catalog.StatusPartial, resp.Status)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, []string{"shoe"}, resp.MissingSlots)
	assert.NotEmpty(t, resp.Message)
}

func TestAssemble_NothingSourcedRendersBlueprint(t *testing.T) {
	store := jobstore.NewMemoryStore()
	adapter := &stubAdapter{name: "zalando", err: errors.New("search page fetch failed")}

	w := testWorker(store, adapter)
	w.Seed = &stubAdapter{name: "seed_catalog"}

	plan := assemblyPlan()
	resp, err := w.Assemble(context.Background(), plan)

	require.NoError(t, err, "a failed look is still a response, not an error")
	assert.Equal(t, catalog.StatusFailed, resp.Status)
	assert.Empty(t, resp.Slots)
	assert.ElementsMatch(t, plan.RequiredSlots, resp.MissingSlots)
	assert.Contains(t, resp.Message, "blueprint")

	job, err := store.GetByFingerprint(context.Background(), catalog.Fingerprint(plan))
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.NotEmpty(t, job.Errors)
	assert.Equal(t, "zalando", job.Errors[0].Retailer)
}

func TestAssemble_InvalidPlanRejectedBeforeAnyJob(t *testing.T) {
	store := jobstore.NewMemoryStore()
	w := testWorker(store, &stubAdapter{name: "zalando"})

	plan := assemblyPlan()
	plan.PerSlot = plan.PerSlot[:1] // required slots now lack constraints

	resp, err := w.Assemble(context.Background(), plan)

	require.Error(t, err)
	assert.Nil(t, resp)

	job, err := store.GetByFingerprint(context.Background(), catalog.Fingerprint(plan))
	require.NoError(t, err)
	assert.Nil(t, job, "rejected plans never create jobs")
}

func TestSearchBounded_TimeoutYieldsEmptyResult(t *testing.T) {
	w := testWorker(jobstore.NewMemoryStore())
	slow := &stubAdapter{name: "asos", delay: time.Second, items: fullCatalog()}

	start := time.Now()
	items := w.searchBounded(context.Background(), slow, sources.Query{Slot: "top"},
		func(string, string, string) {})

	assert.Nil(t, items)
	assert.Less(t, time.Since(start), 500*time.Millisecond,
		"the bound, not the adapter, decides when the call returns")
}

func TestRaceSlot_MergesAndDeduplicates(t *testing.T) {
	shared := stubProduct("top", "Silk Blouse", "https://z.example/blouse", 79)
	unique := stubProduct("top", "Linen Shirt", "https://a.example/linen-shirt", 59)

	a := &stubAdapter{name: "zalando", items: map[string][]catalog.Product{"top": {shared}}}
	b := &stubAdapter{name: "asos", items: map[string][]catalog.Product{"top": {shared, unique}}}

	w := testWorker(jobstore.NewMemoryStore(), a, b)

	merged := w.raceSlot(context.Background(), sources.Query{Slot: "top", Text: "blouse"},
		func(string, string, string) {})

	require.Len(t, merged, 2)
}
