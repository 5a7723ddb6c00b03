package api

type SendInviteRequest struct {
	TabID string `json:"tabId" validate:"required"`
	Phone string `json:"phone" validate:"required,max=32"`
}

type SendReminderRequest struct {
	TabID    string `json:"tabId" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
}

type SendPaymentLinkRequest struct {
	TabID    string `json:"tabId" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
}

// SendResponse carries the provider's message ID.
type SendResponse struct {
	MessageID string `json:"messageId"`
}
