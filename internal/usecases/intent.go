package usecases

import "strings"

// Intent is the coarse classification of an inbound customer message.
type Intent int

const (
	IntentGeneral Intent = iota
	IntentOrder
)

func (i Intent) String() string {
	if i == IntentOrder {
		return "order"
	}
	return "general"
}

var orderKeywords = []string{
	"order", "menu", "food", "hungry", "eat", "delivery",
	"pickup", "want", "get", "buy", "purchase", "place",
}

// ClassifyIntent routes a message to the ordering flow when it contains any
// order keyword, case-insensitive. Pure function so the matcher can be swapped
// without touching the pipeline.
func ClassifyIntent(text string) Intent {
	lower := strings.ToLower(text)
	for _, kw := range orderKeywords {
		if strings.Contains(lower, kw) {
			return IntentOrder
		}
	}
	return IntentGeneral
}
