package receipt

import (
	"context"
	"time"
)

// MockExtractor returns a fixed Olive Garden receipt. It stands in for the
// OCR service when no API key is configured.
type MockExtractor struct {
	Now func() time.Time
}

// Extract ignores the image and returns the sample receipt.
func (m MockExtractor) Extract(_ context.Context, _ []byte, _ string) (*Receipt, error) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	return &Receipt{
		RestaurantName: "Olive Garden",
		Date:           now().Format("2006-01-02"),
		Lines: []Line{
			{Description: "Chicken Alfredo", Quantity: 1, UnitPrice: 18.99, TotalPrice: 18.99},
			{Description: "Caesar Salad", Quantity: 2, UnitPrice: 9.50, TotalPrice: 19.00},
			{Description: "Breadsticks", Quantity: 1, UnitPrice: 0, TotalPrice: 0},
			{Description: "Spaghetti & Meatballs", Quantity: 1, UnitPrice: 17.49, TotalPrice: 17.49},
			{Description: "Tiramisu", Quantity: 1, UnitPrice: 8.99, TotalPrice: 8.99},
			{Description: "Iced Tea", Quantity: 3, UnitPrice: 3.29, TotalPrice: 9.87},
			{Description: "Coke", Quantity: 2, UnitPrice: 3.29, TotalPrice: 6.58},
		},
		Subtotal: 80.92,
		Tax:      7.28,
		Tip:      0,
		Total:    88.20,
	}, nil
}
