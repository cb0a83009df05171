package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/look-composer/internal/fetch"
)

func newStructuredTestAdapter(serverURL string) *StructuredPageAdapter {
	a := NewStructuredPageAdapter("zalando", fetch.PlatformZalando, zerolog.Nop())
	a.SearchBase = serverURL
	return a
}

func TestStructuredPageAdapter_JSONLDPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jsonLDPage))
	}))
	defer server.Close()

	adapter := newStructuredTestAdapter(server.URL)
	result, err := adapter.Search(context.Background(), Query{Text: "silk blouse", Slot: "top", Category: "blouse"})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, "White Silk Blouse", item.Title)
	assert.Equal(t, "structured_page:zalando", item.Source)
	assert.Equal(t, "blouse", item.Fit.Category)
}

func TestStructuredPageAdapter_AnchorFallback(t *testing.T) {
	page := `<html><body>
	  <article><a href="/p/striped-knit.html" title="Striped Knit Sweater">Striped Knit Sweater<span class="price">€ 59,00</span></a></article>
	  <article><a href="/p/wool-blazer.html">Oversized Wool Blazer</a></article>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	adapter := newStructuredTestAdapter(server.URL)
	result, err := adapter.Search(context.Background(), Query{Text: "knit", Slot: "top"})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	first := result.Items[0]
	assert.Equal(t, "Striped Knit Sweater", first.Title)
	assert.Contains(t, first.URL, "/p/striped-knit.html")
	require.NotNil(t, first.Price)
	assert.Equal(t, 59.0, *first.Price)
	assert.Equal(t, "zalando", first.Retailer)
}

func TestStructuredPageAdapter_AnchorFallbackSkipsPageChrome(t *testing.T) {
	page := `<html><body>
	  <nav><article><a href="/p/sale.html">Sale</a></article></nav>
	  <article><a href="/p/striped-knit.html">Striped Knit Sweater</a></article>
	  <div class="recommendations"><article><a href="/p/also-liked.html">Also Liked Cardigan</a></article></div>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	adapter := newStructuredTestAdapter(server.URL)
	result, err := adapter.Search(context.Background(), Query{Text: "knit", Slot: "top"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Striped Knit Sweater", result.Items[0].Title)
}

func TestStructuredPageAdapter_FetchFailureYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := newStructuredTestAdapter(server.URL)
	result, err := adapter.Search(context.Background(), Query{Text: "anything", Slot: "top"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Items)
}

func TestStructuredPageAdapter_UnknownPlatformNotApplicable(t *testing.T) {
	adapter := NewStructuredPageAdapter("boutique", fetch.PlatformUnknown, zerolog.Nop())
	result, err := adapter.Search(context.Background(), Query{Text: "anything"})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestStructuredPageAdapter_CheckStock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(jsonLDPage))
	}))
	defer server.Close()

	adapter := newStructuredTestAdapter(server.URL)
	stock, err := adapter.CheckStock(context.Background(), server.URL+"/product/white-silk-blouse")
	require.NoError(t, err)
	require.NotNil(t, stock)
	assert.Equal(t, "in_stock", string(stock.Availability))
}

func TestStructuredPageAdapter_CheckStockNonURL(t *testing.T) {
	adapter := newStructuredTestAdapter("http://unused")
	stock, err := adapter.CheckStock(context.Background(), "p_abc123")
	require.NoError(t, err)
	assert.Nil(t, stock)
}
