package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/internal/calculator"
	"github.com/mmynk/tabie/internal/docstore"
	"github.com/mmynk/tabie/internal/models"
	"github.com/mmynk/tabie/internal/notify"
	"github.com/mmynk/tabie/pkg/api"
	"github.com/mmynk/tabie/pkg/api/apiconnect"
)

var _ apiconnect.NotifyServiceHandler = (*NotifyService)(nil)

// NotifyService texts invites, reminders and payment links for a tab. Only
// the organizer may send.
type NotifyService struct {
	sender notify.Sender
	links  notify.Links
	store  docstore.Store
}

func NewNotifyService(sender notify.Sender, links notify.Links, store docstore.Store) *NotifyService {
	return &NotifyService{sender: sender, links: links, store: store}
}

func (s *NotifyService) send(ctx context.Context, tabID, to, body string) (*connect.Response[api.SendResponse], error) {
	id, err := s.sender.Send(ctx, to, body)
	if err != nil {
		slog.Warn("SMS not sent", "tab_id", tabID, "error", err)
		switch {
		case errors.Is(err, notify.ErrNotConfigured):
			return nil, connect.NewError(connect.CodeUnavailable, err)
		case errors.Is(err, notify.ErrInvalidPhone), errors.Is(err, notify.ErrUnverifiedNumber):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("SMS sent", "tab_id", tabID, "message_id", id)
	return connect.NewResponse(&api.SendResponse{MessageID: id}), nil
}

// guest returns the person, refusing the organizer, who owes nothing.
func guest(tab *models.Tab, personID string) (*models.Person, error) {
	person := tab.FindPerson(personID)
	if person == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("person %s is not on this tab", personID))
	}
	if organizer := tab.Organizer(); organizer != nil && organizer.ID == person.ID {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("the organizer has nothing to pay"))
	}
	return person, nil
}

func organizerName(tab *models.Tab) string {
	if organizer := tab.Organizer(); organizer != nil {
		return organizer.Name
	}
	return ""
}

// SendInvite texts the join link to a phone number.
func (s *NotifyService) SendInvite(ctx context.Context, req *connect.Request[api.SendInviteRequest]) (*connect.Response[api.SendResponse], error) {
	tab, err := adminTab(ctx, s.store, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	body := notify.InviteMessage(organizerName(tab), tab.RestaurantName, s.links.Join(tab.ID))
	return s.send(ctx, tab.ID, req.Msg.Phone, body)
}

// SendReminder nudges a guest who has not paid, using the phone they joined
// with.
func (s *NotifyService) SendReminder(ctx context.Context, req *connect.Request[api.SendReminderRequest]) (*connect.Response[api.SendResponse], error) {
	tab, err := adminTab(ctx, s.store, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	person, err := guest(tab, req.Msg.PersonID)
	if err != nil {
		return nil, err
	}
	if person.Phone == "" {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%s has no phone number", person.Name))
	}
	if person.PaymentStatus == models.PaymentConfirmed {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("%s has already paid", person.Name))
	}

	amount := calculator.PersonTotal(tab, person.ID)
	body := notify.ReminderMessage(person.Name, organizerName(tab), amount, s.links.Pay(tab.ID, person.ID))
	return s.send(ctx, tab.ID, person.Phone, body)
}

// SendPaymentLink texts a guest their share. The request phone overrides the
// one on file.
func (s *NotifyService) SendPaymentLink(ctx context.Context, req *connect.Request[api.SendPaymentLinkRequest]) (*connect.Response[api.SendResponse], error) {
	tab, err := adminTab(ctx, s.store, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	person, err := guest(tab, req.Msg.PersonID)
	if err != nil {
		return nil, err
	}
	phone := req.Msg.Phone
	if phone == "" {
		phone = person.Phone
	}
	if phone == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("phone is required"))
	}

	amount := calculator.PersonTotal(tab, person.ID)
	body := notify.PaymentLinkMessage(person.Name, tab.RestaurantName, amount, s.links.Pay(tab.ID, person.ID))
	return s.send(ctx, tab.ID, phone, body)
}
