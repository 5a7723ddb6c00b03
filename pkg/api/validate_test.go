package api

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/tabie/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     any
		wantErr string
	}{
		{
			name: "valid join",
			msg:  &JoinTabRequest{TabID: "t1", Name: "Bob"},
		},
		{
			name:    "missing fields use json names",
			msg:     &JoinTabRequest{},
			wantErr: "tabId is required; name is required",
		},
		{
			name:    "unknown split method",
			msg:     &CreateTabRequest{SplitTaxTipMethod: "by-age"},
			wantErr: "splitTaxTipMethod must be one of [equal proportional]",
		},
		{
			name:    "negative tax",
			msg:     &CreateTabRequest{Tax: -1},
			wantErr: "tax must be at least 0",
		},
		{
			name:    "line inside a slice",
			msg:     &SetItemsRequest{TabID: "t1", Items: []LineInput{{Quantity: 1000}}},
			wantErr: "items[0].quantity must be at most 999",
		},
		{
			name:    "empty person in split",
			msg:     &SplitEvenlyRequest{TabID: "t1", ItemID: "i1", PersonIDs: []string{"p1", ""}},
			wantErr: "personIds[1] is required",
		},
		{
			name: "fractional share",
			msg:  &SetFractionalShareRequest{TabID: "t1", ItemID: "i1", PersonID: "p1", Share: models.Fraction(1, 3)},
		},
		{
			name:    "share denominator out of range",
			msg:     &SetFractionalShareRequest{TabID: "t1", ItemID: "i1", PersonID: "p1", Share: models.Fraction(1, 1<<40)},
			wantErr: "share.d must be at most 1000",
		},
		{
			name:    "negative share",
			msg:     &SetFractionalShareRequest{TabID: "t1", ItemID: "i1", PersonID: "p1", Share: models.Fraction(-1, 2)},
			wantErr: "share.n must be at least 0",
		},
		{
			name:    "bad email",
			msg:     &RegisterRequest{Email: "nope", DisplayName: "Dana", Password: "long enough"},
			wantErr: "email must be a valid email",
		},
		{
			name:    "unknown payment method",
			msg:     &ClaimPaymentRequest{TabID: "t1", PersonID: "p1", PaidVia: "iou"},
			wantErr: "paidVia must be one of [venmo cashapp paypal cash other]",
		},
		{
			name:    "replaced item with a negative price",
			msg:     &UpdateTabRequest{TabID: "t1", Items: &[]models.Item{{Quantity: 1, TotalPrice: -5}}},
			wantErr: "items[0].totalPrice must be at least 0",
		},
		{
			name:    "replaced person without an ID",
			msg:     &UpdateTabRequest{TabID: "t1", People: &[]models.Person{{Name: "Bob"}}},
			wantErr: "people[0].id is required",
		},
		{
			name: "optional update fields",
			msg:  &UpdateTabRequest{TabID: "t1"},
		},
		{
			name: "empty message",
			msg:  &ListTabsRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.msg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
