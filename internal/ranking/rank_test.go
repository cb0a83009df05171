package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/look-composer/internal/catalog"
)

func TestRank_BestFirst(t *testing.T) {
	c := &catalog.SlotConstraint{
		Keywords:      []string{"silk"},
		AllowedColors: []string{"white"},
		MinPrice:      40,
		MaxPrice:      100,
	}

	candidates := []catalog.Product{
		{Title: "Polyester Shirt", Price: price(300), Currency: "EUR"},
		{Title: "White Silk Blouse", Price: price(70), Currency: "EUR"},
		{Title: "Cotton Top", Price: price(70), Currency: "EUR"},
	}

	ranked := Rank(candidates, c, nil, "EUR")
	require.Len(t, ranked, 3)
	assert.Equal(t, "White Silk Blouse", ranked[0].Product.Title)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRank_StableOnTies(t *testing.T) {
	c := &catalog.SlotConstraint{MinPrice: 40, MaxPrice: 100}

	candidates := []catalog.Product{
		{Title: "First", Price: price(70), Currency: "EUR"},
		{Title: "Second", Price: price(70), Currency: "EUR"},
		{Title: "Third", Price: price(70), Currency: "EUR"},
	}

	ranked := Rank(candidates, c, nil, "EUR")
	require.Len(t, ranked, 3)
	assert.Equal(t, "First", ranked[0].Product.Title)
	assert.Equal(t, "Second", ranked[1].Product.Title)
	assert.Equal(t, "Third", ranked[2].Product.Title)
}

func TestRank_InBandBeatsOutOfBand(t *testing.T) {
	c := &catalog.SlotConstraint{Keywords: []string{"blazer"}, MinPrice: 50, MaxPrice: 150}

	candidates := []catalog.Product{
		// Out of band but keyword-perfect
		{Title: "Wool Blazer", Price: price(500), Currency: "EUR"},
		// In band at the worst edge, same keywords
		{Title: "Wool Blazer", Price: price(150), Currency: "EUR"},
	}

	ranked := Rank(candidates, c, nil, "EUR")
	require.NotNil(t, ranked[0].Product.Price)
	assert.Equal(t, 150.0, *ranked[0].Product.Price)
}

func TestRank_MissingPriceNotExcluded(t *testing.T) {
	c := &catalog.SlotConstraint{Keywords: []string{"loafers"}, MinPrice: 50, MaxPrice: 150}

	candidates := []catalog.Product{
		{Title: "Black Leather Loafers"},
		{Title: "Unrelated Sandals", Price: price(100), Currency: "EUR"},
	}

	ranked := Rank(candidates, c, nil, "EUR")
	require.Len(t, ranked, 2)
	// keyword hit (2.0) beats price-perfect but keyword-less (1.0)
	assert.Equal(t, "Black Leather Loafers", ranked[0].Product.Title)
}

func TestScore_NilConstraint(t *testing.T) {
	p := catalog.Product{Title: "Anything"}
	assert.Equal(t, 0.0, Score(&p, nil, nil, "EUR"))
}
