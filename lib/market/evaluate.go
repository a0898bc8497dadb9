package market

import (
	"github.com/fiffu/pricewatch/lib/models"
)

// Summarize computes min/avg/max over the listings. ok is false when there
// are no listings to aggregate. The average truncates to an integer.
func Summarize(listings models.Listings) (summary models.Summary, ok bool) {
	if len(listings) == 0 {
		return models.Summary{}, false
	}

	min, max, sum := listings[0].Price, listings[0].Price, 0
	for _, l := range listings {
		if l.Price < min {
			min = l.Price
		}
		if l.Price > max {
			max = l.Price
		}
		sum += l.Price
	}

	return models.Summary{Min: min, Avg: sum / len(listings), Max: max}, true
}

// ShouldAlert reports whether the lowest observed price is strictly below
// the threshold. An exact match does not alert. The predicate is stateless:
// it carries no memory of alerts sent in earlier cycles.
func ShouldAlert(minPrice, threshold int) bool {
	return minPrice < threshold
}
