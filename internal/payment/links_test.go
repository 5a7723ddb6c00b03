package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/tabie/internal/models"
)

func TestURLs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "venmo",
			got:  VenmoURL("alice-smith", 18.5, "Tabie: Luigi's"),
			want: "https://venmo.com/alice-smith?txn=pay&amount=18.50&note=Tabie%3A+Luigi%27s&audience=private",
		},
		{
			name: "venmo strips @",
			got:  VenmoURL("@alice", 10, "x"),
			want: "https://venmo.com/alice?txn=pay&amount=10.00&note=x&audience=private",
		},
		{
			name: "cashapp",
			got:  CashAppURL("$alicecash", 7.25),
			want: "https://cash.app/$alicecash/7.25",
		},
		{
			name: "paypal",
			got:  PayPalURL("alicepp", 30),
			want: "https://paypal.me/alicepp/30.00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLinks(t *testing.T) {
	accounts := &models.PaymentAccounts{Venmo: "alice", PayPal: "alicepp", CashApp: "  "}
	links := Links(accounts, 12, Note(""))

	assert.Equal(t, []Link{
		{Method: Venmo, URL: "https://venmo.com/alice?txn=pay&amount=12.00&note=Tabie&audience=private"},
		{Method: PayPal, URL: "https://paypal.me/alicepp/12.00"},
	}, links)
	assert.Nil(t, Links(nil, 12, ""))
}

func TestMethodValid(t *testing.T) {
	for _, m := range []Method{Venmo, CashApp, PayPal, Cash, Other} {
		assert.True(t, m.Valid(), m)
	}
	assert.False(t, Method("zelle").Valid())
}
