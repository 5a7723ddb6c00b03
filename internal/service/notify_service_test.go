package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/internal/notify"
	"github.com/mmynk/tabie/pkg/api"
)

func TestSendInvite(t *testing.T) {
	env := setupTestServer(t)
	tab, _ := env.openTab(t, &api.CreateTabRequest{RestaurantName: "Pho Place"})

	resp, err := env.notify.SendInvite(context.Background(), as(env.alice.ID, &api.SendInviteRequest{
		TabID: tab.ID,
		Phone: "+15551230000",
	}))
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}
	if resp.Msg.MessageID == "" {
		t.Error("expected a message ID")
	}

	sent := env.sender.messages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sent))
	}
	if sent[0].To != "+15551230000" {
		t.Errorf("unexpected recipient %s", sent[0].To)
	}
	for _, want := range []string{"Alice invited you", "Pho Place", "https://tabie.test/join/" + tab.ID} {
		if !strings.Contains(sent[0].Body, want) {
			t.Errorf("message %q does not contain %q", sent[0].Body, want)
		}
	}
}

func TestSendReminder(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tab, guests := env.openTab(t, &api.CreateTabRequest{
		Items: []api.LineInput{{Description: "Bun", Quantity: 1, TotalPrice: 14.5}},
	}, "Bob")

	// Bob joined without a phone number.
	_, err := env.notify.SendReminder(ctx, as(env.alice.ID, &api.SendReminderRequest{TabID: tab.ID, PersonID: guests[0]}))
	assertCode(t, err, connect.CodeFailedPrecondition)

	join, err := env.tabs.JoinTab(ctx, connect.NewRequest(&api.JoinTabRequest{TabID: tab.ID, Name: "Carol", Phone: "+15550001111"}))
	if err != nil {
		t.Fatalf("JoinTab failed: %v", err)
	}
	carol := join.Msg.PersonID
	if _, err := env.tabs.ToggleClaim(ctx, connect.NewRequest(&api.ToggleClaimRequest{
		TabID: tab.ID, ItemID: tab.Items[0].ID, PersonID: carol,
	})); err != nil {
		t.Fatalf("ToggleClaim failed: %v", err)
	}

	if _, err := env.notify.SendReminder(ctx, as(env.alice.ID, &api.SendReminderRequest{TabID: tab.ID, PersonID: carol})); err != nil {
		t.Fatalf("SendReminder failed: %v", err)
	}
	sent := env.sender.messages()
	if len(sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sent))
	}
	body := sent[0].Body
	if !strings.Contains(body, "$14.50") || !strings.Contains(body, "https://tabie.test/pay/"+tab.ID+"/"+carol) {
		t.Errorf("unexpected reminder %q", body)
	}

	if _, err := env.tabs.ConfirmPayment(ctx, as(env.alice.ID, &api.ConfirmPaymentRequest{TabID: tab.ID, PersonID: carol})); err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	_, err = env.notify.SendReminder(ctx, as(env.alice.ID, &api.SendReminderRequest{TabID: tab.ID, PersonID: carol}))
	assertCode(t, err, connect.CodeFailedPrecondition)
}

func TestSendPaymentLink(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tab, guests := env.openTab(t, &api.CreateTabRequest{RestaurantName: "Deli"}, "Bob")

	_, err := env.notify.SendPaymentLink(ctx, as(env.alice.ID, &api.SendPaymentLinkRequest{
		TabID: tab.ID, PersonID: tab.People[0].ID, Phone: "+15550002222",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.notify.SendPaymentLink(ctx, as(env.alice.ID, &api.SendPaymentLinkRequest{TabID: tab.ID, PersonID: guests[0]}))
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = env.notify.SendPaymentLink(ctx, as(env.alice.ID, &api.SendPaymentLinkRequest{TabID: tab.ID, PersonID: "nobody", Phone: "+15550002222"}))
	assertCode(t, err, connect.CodeNotFound)

	if _, err := env.notify.SendPaymentLink(ctx, as(env.alice.ID, &api.SendPaymentLinkRequest{
		TabID: tab.ID, PersonID: guests[0], Phone: "+15550002222",
	})); err != nil {
		t.Fatalf("SendPaymentLink failed: %v", err)
	}
	sent := env.sender.messages()
	if len(sent) != 1 || sent[0].To != "+15550002222" || !strings.Contains(sent[0].Body, "Hey Bob!") {
		t.Errorf("unexpected messages %+v", sent)
	}
}

func TestNotify_SenderErrors(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	tab, _ := env.openTab(t, &api.CreateTabRequest{})

	env.sender.fail(notify.ErrNotConfigured)
	_, err := env.notify.SendInvite(ctx, as(env.alice.ID, &api.SendInviteRequest{TabID: tab.ID, Phone: "+15551230000"}))
	assertCode(t, err, connect.CodeUnavailable)

	env.sender.fail(notify.ErrInvalidPhone)
	_, err = env.notify.SendInvite(ctx, as(env.alice.ID, &api.SendInviteRequest{TabID: tab.ID, Phone: "12"}))
	assertCode(t, err, connect.CodeInvalidArgument)

	env.sender.fail(nil)
	_, err = env.notify.SendInvite(ctx, as("mallory", &api.SendInviteRequest{TabID: tab.ID, Phone: "+15551230000"}))
	assertCode(t, err, connect.CodePermissionDenied)
}
