package api

import "github.com/mmynk/tabie/internal/models"

// User is the public view of an account.
type User struct {
	ID              string                 `json:"id"`
	Email           string                 `json:"email"`
	DisplayName     string                 `json:"displayName"`
	PaymentAccounts models.PaymentAccounts `json:"paymentAccounts"`
	CreatedAt       int64                  `json:"createdAt"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	DisplayName string `json:"displayName" validate:"required,max=60"`
	Password    string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}

type UpdatePaymentAccountsRequest struct {
	Venmo   string `json:"venmo" validate:"max=64"`
	CashApp string `json:"cashapp" validate:"max=64"`
	PayPal  string `json:"paypal" validate:"max=64"`
}

type UpdatePaymentAccountsResponse struct {
	User *User `json:"user"`
}

type GetRewardsRequest struct{}

// RewardEntry is one settled tab in a user's reward history.
type RewardEntry struct {
	TabID        string  `json:"tabId"`
	TabName      string  `json:"tabName"`
	Subtotal     float64 `json:"subtotal"`
	PointsEarned int64   `json:"pointsEarned"`
	EarnedAt     int64   `json:"earnedAt"`
}

type GetRewardsResponse struct {
	Balance  int64         `json:"balance"`
	Lifetime int64         `json:"lifetime"`
	History  []RewardEntry `json:"history"`
}
