package api

type ScanReceiptRequest struct {
	Image    []byte `json:"image" validate:"required,max=10485760"`
	Filename string `json:"filename" validate:"max=200"`

	// TabID, when set, replaces the tab's items with the scanned lines.
	TabID string `json:"tabId,omitempty"`
}

type ScanReceiptResponse struct {
	RestaurantName  string          `json:"restaurantName"`
	Date            string          `json:"date"`
	Items           []LineInput     `json:"items"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	Tip             float64         `json:"tip"`
	Total           float64         `json:"total"`
	TipSuggestions  []TipSuggestion `json:"tipSuggestions"`
	ReceiptImageURL string          `json:"receiptImageUrl,omitempty"`
	TabResponse
}
