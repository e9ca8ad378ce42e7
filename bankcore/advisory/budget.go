package advisory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/lib-bankcore/bankcore/ledger"
)

// Spending category names returned by CategorizeSpending.
const (
	CategoryFood          = "food"
	CategoryEntertainment = "entertainment"
	CategoryShopping      = "shopping"
	CategoryOther         = "other"
)

// CategorizeSpending buckets entries by description keywords. Every entry
// lands in exactly one bucket; anything unrecognized counts as other.
func CategorizeSpending(history []ledger.Entry) map[string]decimal.Decimal {
	categories := map[string]decimal.Decimal{
		CategoryFood:          decimal.Zero,
		CategoryEntertainment: decimal.Zero,
		CategoryShopping:      decimal.Zero,
		CategoryOther:         decimal.Zero,
	}

	for _, entry := range history {
		category := categorize(entry.Description)
		categories[category] = categories[category].Add(entry.Amount)
	}

	return categories
}

func categorize(description string) string {
	description = strings.ToLower(description)

	switch {
	case strings.Contains(description, "food"):
		return CategoryFood
	case strings.Contains(description, "entertainment"):
		return CategoryEntertainment
	case strings.Contains(description, "shop"):
		return CategoryShopping
	default:
		return CategoryOther
	}
}
