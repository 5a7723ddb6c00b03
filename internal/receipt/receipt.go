// Package receipt turns a photo of a restaurant bill into line items.
package receipt

import (
	"context"
	"errors"
	"math"
)

var (
	// ErrNoJobID is returned when the OCR service accepts an upload without
	// handing back a job to poll.
	ErrNoJobID = errors.New("no job ID returned")

	// ErrTimeout is returned when the OCR job does not finish in time.
	ErrTimeout = errors.New("timed out waiting for receipt results")
)

// Line is one purchased item as printed on the receipt.
type Line struct {
	Description string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// Receipt is the structured content of a scanned bill.
type Receipt struct {
	RestaurantName string
	Date           string
	Lines          []Line
	Subtotal       float64
	Tax            float64
	Tip            float64
	Total          float64
}

// Extractor reads a receipt image.
type Extractor interface {
	Extract(ctx context.Context, image []byte, filename string) (*Receipt, error)
}

// TipSuggestion is a preset tip amount.
type TipSuggestion struct {
	Percentage int
	Amount     float64
}

// tipPercentages are offered in this order.
var tipPercentages = []int{15, 18, 20, 25}

// TipSuggestions returns the preset tips for subtotal, rounded to cents.
func TipSuggestions(subtotal float64) []TipSuggestion {
	out := make([]TipSuggestion, len(tipPercentages))
	for i, pct := range tipPercentages {
		out[i] = TipSuggestion{
			Percentage: pct,
			Amount:     math.Round(subtotal*float64(pct)) / 100,
		}
	}
	return out
}
