package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwinAdapter_UnconfiguredReturnsNil(t *testing.T) {
	adapter := NewAwinAdapter(AwinConfig{}, zerolog.Nop())

	result, err := adapter.Search(context.Background(), Query{Text: "loafers"})
	require.NoError(t, err)
	assert.Nil(t, result)

	link, err := adapter.AffiliateLink(context.Background(), "https://shop.example.com/p/1")
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestAwinAdapter_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[
			{"productId":"awin_1","productName":"Black Leather Loafers","brandName":"Vagabond",
			 "merchantName":"zalando","price":110.0,"currency":"EUR",
			 "deepLink":"https://shop.example.com/p/loafers?cjevent=x","imageUrl":"https://cdn.example.com/l.jpg","inStock":true},
			{"productName":"","deepLink":""}
		]}`))
	}))
	defer server.Close()

	adapter := NewAwinAdapter(AwinConfig{APIToken: "token123", PublisherID: "pub1"}, zerolog.Nop())
	adapter.BaseURL = server.URL

	result, err := adapter.Search(context.Background(), Query{Text: "loafers", Slot: "shoe", Category: "shoe"})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Items, 1)

	item := result.Items[0]
	assert.Equal(t, "awin_1", item.ID)
	assert.Equal(t, "Black Leather Loafers", item.Title)
	assert.Equal(t, "https://shop.example.com/p/loafers", item.URL)
	assert.Equal(t, "in_stock", string(item.Availability))
	assert.Equal(t, "awin", item.Source)
}

func TestAwinAdapter_APIFailureYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	adapter := NewAwinAdapter(AwinConfig{APIToken: "t", PublisherID: "p"}, zerolog.Nop())
	adapter.BaseURL = server.URL

	result, err := adapter.Search(context.Background(), Query{Text: "loafers"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Items)
}

func TestAwinAdapter_AffiliateLink(t *testing.T) {
	adapter := NewAwinAdapter(AwinConfig{APIToken: "t", PublisherID: "pub1"}, zerolog.Nop())

	link, err := adapter.AffiliateLink(context.Background(), "https://www.vagabond.com/p/loafers")
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Contains(t, link.URL, "awinaffid=pub1")
	assert.Contains(t, link.URL, "ued=")
	assert.Equal(t, "vagabond.com", link.Retailer)
}
