package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/pkg/api"
)

// NotifyServiceName is the fully-qualified name of the NotifyService service.
const NotifyServiceName = "tabie.v1.NotifyService"

const (
	NotifyServiceSendInviteProcedure      = "/tabie.v1.NotifyService/SendInvite"
	NotifyServiceSendReminderProcedure    = "/tabie.v1.NotifyService/SendReminder"
	NotifyServiceSendPaymentLinkProcedure = "/tabie.v1.NotifyService/SendPaymentLink"
)

// NotifyServiceHandler is implemented by the notify service.
type NotifyServiceHandler interface {
	SendInvite(context.Context, *connect.Request[api.SendInviteRequest]) (*connect.Response[api.SendResponse], error)
	SendReminder(context.Context, *connect.Request[api.SendReminderRequest]) (*connect.Response[api.SendResponse], error)
	SendPaymentLink(context.Context, *connect.Request[api.SendPaymentLinkRequest]) (*connect.Response[api.SendResponse], error)
}

// NewNotifyServiceHandler builds an HTTP handler from the service implementation.
func NewNotifyServiceHandler(svc NotifyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(NotifyServiceName, map[string]http.Handler{
		NotifyServiceSendInviteProcedure:      connect.NewUnaryHandler(NotifyServiceSendInviteProcedure, svc.SendInvite, o...),
		NotifyServiceSendReminderProcedure:    connect.NewUnaryHandler(NotifyServiceSendReminderProcedure, svc.SendReminder, o...),
		NotifyServiceSendPaymentLinkProcedure: connect.NewUnaryHandler(NotifyServiceSendPaymentLinkProcedure, svc.SendPaymentLink, o...),
	})
}

// NotifyServiceClient is a client for the notify service.
type NotifyServiceClient struct {
	sendInvite      *connect.Client[api.SendInviteRequest, api.SendResponse]
	sendReminder    *connect.Client[api.SendReminderRequest, api.SendResponse]
	sendPaymentLink *connect.Client[api.SendPaymentLinkRequest, api.SendResponse]
}

// NewNotifyServiceClient constructs a client for the notify service at url.
func NewNotifyServiceClient(httpClient connect.HTTPClient, url string, opts ...connect.ClientOption) *NotifyServiceClient {
	url = baseURL(url)
	o := clientOptions(opts)
	return &NotifyServiceClient{
		sendInvite:      connect.NewClient[api.SendInviteRequest, api.SendResponse](httpClient, url+NotifyServiceSendInviteProcedure, o...),
		sendReminder:    connect.NewClient[api.SendReminderRequest, api.SendResponse](httpClient, url+NotifyServiceSendReminderProcedure, o...),
		sendPaymentLink: connect.NewClient[api.SendPaymentLinkRequest, api.SendResponse](httpClient, url+NotifyServiceSendPaymentLinkProcedure, o...),
	}
}

func (c *NotifyServiceClient) SendInvite(ctx context.Context, req *connect.Request[api.SendInviteRequest]) (*connect.Response[api.SendResponse], error) {
	return c.sendInvite.CallUnary(ctx, req)
}

func (c *NotifyServiceClient) SendReminder(ctx context.Context, req *connect.Request[api.SendReminderRequest]) (*connect.Response[api.SendResponse], error) {
	return c.sendReminder.CallUnary(ctx, req)
}

func (c *NotifyServiceClient) SendPaymentLink(ctx context.Context, req *connect.Request[api.SendPaymentLinkRequest]) (*connect.Response[api.SendResponse], error) {
	return c.sendPaymentLink.CallUnary(ctx, req)
}
