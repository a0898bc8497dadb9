package market

import (
	"testing"

	"github.com/fiffu/pricewatch/lib/models"
	"github.com/stretchr/testify/assert"
)

func makeListings(prices ...int) models.Listings {
	listings := make(models.Listings, 0, len(prices))
	for _, p := range prices {
		listings = append(listings, models.Listing{Price: p})
	}
	return listings
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name     string
		listings models.Listings
		want     models.Summary
	}{
		{
			name:     "three listings",
			listings: makeListings(100, 200, 300),
			want:     models.Summary{Min: 100, Avg: 200, Max: 300},
		},
		{
			name:     "average floors",
			listings: makeListings(100, 101),
			want:     models.Summary{Min: 100, Avg: 100, Max: 101},
		},
		{
			name:     "single listing",
			listings: makeListings(42),
			want:     models.Summary{Min: 42, Avg: 42, Max: 42},
		},
		{
			name:     "unordered listings",
			listings: makeListings(300, 100, 200),
			want:     models.Summary{Min: 100, Avg: 200, Max: 300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Summarize(tt.listings)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizeNoData(t *testing.T) {
	_, ok := Summarize(nil)
	assert.False(t, ok)

	_, ok = Summarize(models.Listings{})
	assert.False(t, ok)
}

func TestShouldAlert(t *testing.T) {
	assert.True(t, ShouldAlert(95000, 100000))
	assert.False(t, ShouldAlert(100001, 100000))

	// Exact match must not alert.
	assert.False(t, ShouldAlert(100000, 100000))
}
