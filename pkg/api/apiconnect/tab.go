package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/pkg/api"
)

// TabServiceName is the fully-qualified name of the TabService service.
const TabServiceName = "tabie.v1.TabService"

// Procedure names, as sent in the HTTP path.
const (
	TabServiceCreateTabProcedure          = "/tabie.v1.TabService/CreateTab"
	TabServiceGetTabProcedure             = "/tabie.v1.TabService/GetTab"
	TabServiceListTabsProcedure           = "/tabie.v1.TabService/ListTabs"
	TabServiceUpdateTabProcedure          = "/tabie.v1.TabService/UpdateTab"
	TabServiceDeleteTabProcedure          = "/tabie.v1.TabService/DeleteTab"
	TabServicePublishTabProcedure         = "/tabie.v1.TabService/PublishTab"
	TabServiceJoinTabProcedure            = "/tabie.v1.TabService/JoinTab"
	TabServiceAddPersonProcedure          = "/tabie.v1.TabService/AddPerson"
	TabServiceRemovePersonProcedure       = "/tabie.v1.TabService/RemovePerson"
	TabServiceSetItemsProcedure           = "/tabie.v1.TabService/SetItems"
	TabServiceAddItemProcedure            = "/tabie.v1.TabService/AddItem"
	TabServiceRemoveItemProcedure         = "/tabie.v1.TabService/RemoveItem"
	TabServiceToggleClaimProcedure        = "/tabie.v1.TabService/ToggleClaim"
	TabServiceSetQuantityClaimProcedure   = "/tabie.v1.TabService/SetQuantityClaim"
	TabServiceSetFractionalShareProcedure = "/tabie.v1.TabService/SetFractionalShare"
	TabServiceClearAssignmentsProcedure   = "/tabie.v1.TabService/ClearAssignments"
	TabServiceSplitEvenlyProcedure        = "/tabie.v1.TabService/SplitEvenly"
	TabServiceGetTotalsProcedure          = "/tabie.v1.TabService/GetTotals"
	TabServiceClaimPaymentProcedure       = "/tabie.v1.TabService/ClaimPayment"
	TabServiceConfirmPaymentProcedure     = "/tabie.v1.TabService/ConfirmPayment"
	TabServiceRejectPaymentProcedure      = "/tabie.v1.TabService/RejectPayment"
	TabServiceSubscribeProcedure          = "/tabie.v1.TabService/Subscribe"
)

// TabServiceHandler is implemented by the tab service.
type TabServiceHandler interface {
	CreateTab(context.Context, *connect.Request[api.CreateTabRequest]) (*connect.Response[api.TabResponse], error)
	GetTab(context.Context, *connect.Request[api.GetTabRequest]) (*connect.Response[api.TabResponse], error)
	ListTabs(context.Context, *connect.Request[api.ListTabsRequest]) (*connect.Response[api.ListTabsResponse], error)
	UpdateTab(context.Context, *connect.Request[api.UpdateTabRequest]) (*connect.Response[api.TabResponse], error)
	DeleteTab(context.Context, *connect.Request[api.DeleteTabRequest]) (*connect.Response[api.DeleteTabResponse], error)
	PublishTab(context.Context, *connect.Request[api.PublishTabRequest]) (*connect.Response[api.TabResponse], error)
	JoinTab(context.Context, *connect.Request[api.JoinTabRequest]) (*connect.Response[api.JoinTabResponse], error)
	AddPerson(context.Context, *connect.Request[api.AddPersonRequest]) (*connect.Response[api.JoinTabResponse], error)
	RemovePerson(context.Context, *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.TabResponse], error)
	SetItems(context.Context, *connect.Request[api.SetItemsRequest]) (*connect.Response[api.TabResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.TabResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.TabResponse], error)
	ToggleClaim(context.Context, *connect.Request[api.ToggleClaimRequest]) (*connect.Response[api.TabResponse], error)
	SetQuantityClaim(context.Context, *connect.Request[api.SetQuantityClaimRequest]) (*connect.Response[api.TabResponse], error)
	SetFractionalShare(context.Context, *connect.Request[api.SetFractionalShareRequest]) (*connect.Response[api.TabResponse], error)
	ClearAssignments(context.Context, *connect.Request[api.ClearAssignmentsRequest]) (*connect.Response[api.TabResponse], error)
	SplitEvenly(context.Context, *connect.Request[api.SplitEvenlyRequest]) (*connect.Response[api.TabResponse], error)
	GetTotals(context.Context, *connect.Request[api.GetTotalsRequest]) (*connect.Response[api.GetTotalsResponse], error)
	ClaimPayment(context.Context, *connect.Request[api.ClaimPaymentRequest]) (*connect.Response[api.PaymentResponse], error)
	ConfirmPayment(context.Context, *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.PaymentResponse], error)
	RejectPayment(context.Context, *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.PaymentResponse], error)
	Subscribe(context.Context, *connect.Request[api.SubscribeRequest], *connect.ServerStream[api.TabEvent]) error
}

// NewTabServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTabServiceHandler(svc TabServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(TabServiceName, map[string]http.Handler{
		TabServiceCreateTabProcedure:          connect.NewUnaryHandler(TabServiceCreateTabProcedure, svc.CreateTab, o...),
		TabServiceGetTabProcedure:             connect.NewUnaryHandler(TabServiceGetTabProcedure, svc.GetTab, o...),
		TabServiceListTabsProcedure:           connect.NewUnaryHandler(TabServiceListTabsProcedure, svc.ListTabs, o...),
		TabServiceUpdateTabProcedure:          connect.NewUnaryHandler(TabServiceUpdateTabProcedure, svc.UpdateTab, o...),
		TabServiceDeleteTabProcedure:          connect.NewUnaryHandler(TabServiceDeleteTabProcedure, svc.DeleteTab, o...),
		TabServicePublishTabProcedure:         connect.NewUnaryHandler(TabServicePublishTabProcedure, svc.PublishTab, o...),
		TabServiceJoinTabProcedure:            connect.NewUnaryHandler(TabServiceJoinTabProcedure, svc.JoinTab, o...),
		TabServiceAddPersonProcedure:          connect.NewUnaryHandler(TabServiceAddPersonProcedure, svc.AddPerson, o...),
		TabServiceRemovePersonProcedure:       connect.NewUnaryHandler(TabServiceRemovePersonProcedure, svc.RemovePerson, o...),
		TabServiceSetItemsProcedure:           connect.NewUnaryHandler(TabServiceSetItemsProcedure, svc.SetItems, o...),
		TabServiceAddItemProcedure:            connect.NewUnaryHandler(TabServiceAddItemProcedure, svc.AddItem, o...),
		TabServiceRemoveItemProcedure:         connect.NewUnaryHandler(TabServiceRemoveItemProcedure, svc.RemoveItem, o...),
		TabServiceToggleClaimProcedure:        connect.NewUnaryHandler(TabServiceToggleClaimProcedure, svc.ToggleClaim, o...),
		TabServiceSetQuantityClaimProcedure:   connect.NewUnaryHandler(TabServiceSetQuantityClaimProcedure, svc.SetQuantityClaim, o...),
		TabServiceSetFractionalShareProcedure: connect.NewUnaryHandler(TabServiceSetFractionalShareProcedure, svc.SetFractionalShare, o...),
		TabServiceClearAssignmentsProcedure:   connect.NewUnaryHandler(TabServiceClearAssignmentsProcedure, svc.ClearAssignments, o...),
		TabServiceSplitEvenlyProcedure:        connect.NewUnaryHandler(TabServiceSplitEvenlyProcedure, svc.SplitEvenly, o...),
		TabServiceGetTotalsProcedure:          connect.NewUnaryHandler(TabServiceGetTotalsProcedure, svc.GetTotals, o...),
		TabServiceClaimPaymentProcedure:       connect.NewUnaryHandler(TabServiceClaimPaymentProcedure, svc.ClaimPayment, o...),
		TabServiceConfirmPaymentProcedure:     connect.NewUnaryHandler(TabServiceConfirmPaymentProcedure, svc.ConfirmPayment, o...),
		TabServiceRejectPaymentProcedure:      connect.NewUnaryHandler(TabServiceRejectPaymentProcedure, svc.RejectPayment, o...),
		TabServiceSubscribeProcedure:          connect.NewServerStreamHandler(TabServiceSubscribeProcedure, svc.Subscribe, o...),
	})
}

// TabServiceClient is a client for the tab service.
type TabServiceClient struct {
	createTab          *connect.Client[api.CreateTabRequest, api.TabResponse]
	getTab             *connect.Client[api.GetTabRequest, api.TabResponse]
	listTabs           *connect.Client[api.ListTabsRequest, api.ListTabsResponse]
	updateTab          *connect.Client[api.UpdateTabRequest, api.TabResponse]
	deleteTab          *connect.Client[api.DeleteTabRequest, api.DeleteTabResponse]
	publishTab         *connect.Client[api.PublishTabRequest, api.TabResponse]
	joinTab            *connect.Client[api.JoinTabRequest, api.JoinTabResponse]
	addPerson          *connect.Client[api.AddPersonRequest, api.JoinTabResponse]
	removePerson       *connect.Client[api.RemovePersonRequest, api.TabResponse]
	setItems           *connect.Client[api.SetItemsRequest, api.TabResponse]
	addItem            *connect.Client[api.AddItemRequest, api.TabResponse]
	removeItem         *connect.Client[api.RemoveItemRequest, api.TabResponse]
	toggleClaim        *connect.Client[api.ToggleClaimRequest, api.TabResponse]
	setQuantityClaim   *connect.Client[api.SetQuantityClaimRequest, api.TabResponse]
	setFractionalShare *connect.Client[api.SetFractionalShareRequest, api.TabResponse]
	clearAssignments   *connect.Client[api.ClearAssignmentsRequest, api.TabResponse]
	splitEvenly        *connect.Client[api.SplitEvenlyRequest, api.TabResponse]
	getTotals          *connect.Client[api.GetTotalsRequest, api.GetTotalsResponse]
	claimPayment       *connect.Client[api.ClaimPaymentRequest, api.PaymentResponse]
	confirmPayment     *connect.Client[api.ConfirmPaymentRequest, api.PaymentResponse]
	rejectPayment      *connect.Client[api.RejectPaymentRequest, api.PaymentResponse]
	subscribe          *connect.Client[api.SubscribeRequest, api.TabEvent]
}

// NewTabServiceClient constructs a client for the tab service at url, the
// server's base URL (for example, http://localhost:8080).
func NewTabServiceClient(httpClient connect.HTTPClient, url string, opts ...connect.ClientOption) *TabServiceClient {
	url = baseURL(url)
	o := clientOptions(opts)
	return &TabServiceClient{
		createTab:          connect.NewClient[api.CreateTabRequest, api.TabResponse](httpClient, url+TabServiceCreateTabProcedure, o...),
		getTab:             connect.NewClient[api.GetTabRequest, api.TabResponse](httpClient, url+TabServiceGetTabProcedure, o...),
		listTabs:           connect.NewClient[api.ListTabsRequest, api.ListTabsResponse](httpClient, url+TabServiceListTabsProcedure, o...),
		updateTab:          connect.NewClient[api.UpdateTabRequest, api.TabResponse](httpClient, url+TabServiceUpdateTabProcedure, o...),
		deleteTab:          connect.NewClient[api.DeleteTabRequest, api.DeleteTabResponse](httpClient, url+TabServiceDeleteTabProcedure, o...),
		publishTab:         connect.NewClient[api.PublishTabRequest, api.TabResponse](httpClient, url+TabServicePublishTabProcedure, o...),
		joinTab:            connect.NewClient[api.JoinTabRequest, api.JoinTabResponse](httpClient, url+TabServiceJoinTabProcedure, o...),
		addPerson:          connect.NewClient[api.AddPersonRequest, api.JoinTabResponse](httpClient, url+TabServiceAddPersonProcedure, o...),
		removePerson:       connect.NewClient[api.RemovePersonRequest, api.TabResponse](httpClient, url+TabServiceRemovePersonProcedure, o...),
		setItems:           connect.NewClient[api.SetItemsRequest, api.TabResponse](httpClient, url+TabServiceSetItemsProcedure, o...),
		addItem:            connect.NewClient[api.AddItemRequest, api.TabResponse](httpClient, url+TabServiceAddItemProcedure, o...),
		removeItem:         connect.NewClient[api.RemoveItemRequest, api.TabResponse](httpClient, url+TabServiceRemoveItemProcedure, o...),
		toggleClaim:        connect.NewClient[api.ToggleClaimRequest, api.TabResponse](httpClient, url+TabServiceToggleClaimProcedure, o...),
		setQuantityClaim:   connect.NewClient[api.SetQuantityClaimRequest, api.TabResponse](httpClient, url+TabServiceSetQuantityClaimProcedure, o...),
		setFractionalShare: connect.NewClient[api.SetFractionalShareRequest, api.TabResponse](httpClient, url+TabServiceSetFractionalShareProcedure, o...),
		clearAssignments:   connect.NewClient[api.ClearAssignmentsRequest, api.TabResponse](httpClient, url+TabServiceClearAssignmentsProcedure, o...),
		splitEvenly:        connect.NewClient[api.SplitEvenlyRequest, api.TabResponse](httpClient, url+TabServiceSplitEvenlyProcedure, o...),
		getTotals:          connect.NewClient[api.GetTotalsRequest, api.GetTotalsResponse](httpClient, url+TabServiceGetTotalsProcedure, o...),
		claimPayment:       connect.NewClient[api.ClaimPaymentRequest, api.PaymentResponse](httpClient, url+TabServiceClaimPaymentProcedure, o...),
		confirmPayment:     connect.NewClient[api.ConfirmPaymentRequest, api.PaymentResponse](httpClient, url+TabServiceConfirmPaymentProcedure, o...),
		rejectPayment:      connect.NewClient[api.RejectPaymentRequest, api.PaymentResponse](httpClient, url+TabServiceRejectPaymentProcedure, o...),
		subscribe:          connect.NewClient[api.SubscribeRequest, api.TabEvent](httpClient, url+TabServiceSubscribeProcedure, o...),
	}
}

func (c *TabServiceClient) CreateTab(ctx context.Context, req *connect.Request[api.CreateTabRequest]) (*connect.Response[api.TabResponse], error) {
	return c.createTab.CallUnary(ctx, req)
}

func (c *TabServiceClient) GetTab(ctx context.Context, req *connect.Request[api.GetTabRequest]) (*connect.Response[api.TabResponse], error) {
	return c.getTab.CallUnary(ctx, req)
}

func (c *TabServiceClient) ListTabs(ctx context.Context, req *connect.Request[api.ListTabsRequest]) (*connect.Response[api.ListTabsResponse], error) {
	return c.listTabs.CallUnary(ctx, req)
}

func (c *TabServiceClient) UpdateTab(ctx context.Context, req *connect.Request[api.UpdateTabRequest]) (*connect.Response[api.TabResponse], error) {
	return c.updateTab.CallUnary(ctx, req)
}

func (c *TabServiceClient) DeleteTab(ctx context.Context, req *connect.Request[api.DeleteTabRequest]) (*connect.Response[api.DeleteTabResponse], error) {
	return c.deleteTab.CallUnary(ctx, req)
}

func (c *TabServiceClient) PublishTab(ctx context.Context, req *connect.Request[api.PublishTabRequest]) (*connect.Response[api.TabResponse], error) {
	return c.publishTab.CallUnary(ctx, req)
}

func (c *TabServiceClient) JoinTab(ctx context.Context, req *connect.Request[api.JoinTabRequest]) (*connect.Response[api.JoinTabResponse], error) {
	return c.joinTab.CallUnary(ctx, req)
}

func (c *TabServiceClient) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.JoinTabResponse], error) {
	return c.addPerson.CallUnary(ctx, req)
}

func (c *TabServiceClient) RemovePerson(ctx context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.TabResponse], error) {
	return c.removePerson.CallUnary(ctx, req)
}

func (c *TabServiceClient) SetItems(ctx context.Context, req *connect.Request[api.SetItemsRequest]) (*connect.Response[api.TabResponse], error) {
	return c.setItems.CallUnary(ctx, req)
}

func (c *TabServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.TabResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

func (c *TabServiceClient) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.TabResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

func (c *TabServiceClient) ToggleClaim(ctx context.Context, req *connect.Request[api.ToggleClaimRequest]) (*connect.Response[api.TabResponse], error) {
	return c.toggleClaim.CallUnary(ctx, req)
}

func (c *TabServiceClient) SetQuantityClaim(ctx context.Context, req *connect.Request[api.SetQuantityClaimRequest]) (*connect.Response[api.TabResponse], error) {
	return c.setQuantityClaim.CallUnary(ctx, req)
}

func (c *TabServiceClient) SetFractionalShare(ctx context.Context, req *connect.Request[api.SetFractionalShareRequest]) (*connect.Response[api.TabResponse], error) {
	return c.setFractionalShare.CallUnary(ctx, req)
}

func (c *TabServiceClient) ClearAssignments(ctx context.Context, req *connect.Request[api.ClearAssignmentsRequest]) (*connect.Response[api.TabResponse], error) {
	return c.clearAssignments.CallUnary(ctx, req)
}

func (c *TabServiceClient) SplitEvenly(ctx context.Context, req *connect.Request[api.SplitEvenlyRequest]) (*connect.Response[api.TabResponse], error) {
	return c.splitEvenly.CallUnary(ctx, req)
}

func (c *TabServiceClient) GetTotals(ctx context.Context, req *connect.Request[api.GetTotalsRequest]) (*connect.Response[api.GetTotalsResponse], error) {
	return c.getTotals.CallUnary(ctx, req)
}

func (c *TabServiceClient) ClaimPayment(ctx context.Context, req *connect.Request[api.ClaimPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	return c.claimPayment.CallUnary(ctx, req)
}

func (c *TabServiceClient) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	return c.confirmPayment.CallUnary(ctx, req)
}

func (c *TabServiceClient) RejectPayment(ctx context.Context, req *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	return c.rejectPayment.CallUnary(ctx, req)
}

func (c *TabServiceClient) Subscribe(ctx context.Context, req *connect.Request[api.SubscribeRequest]) (*connect.ServerStreamForClient[api.TabEvent], error) {
	return c.subscribe.CallServerStream(ctx, req)
}
