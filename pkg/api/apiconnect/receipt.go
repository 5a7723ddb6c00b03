package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/pkg/api"
)

const (
	// ReceiptServiceName is the fully-qualified name of the ReceiptService service.
	ReceiptServiceName = "tabie.v1.ReceiptService"

	ReceiptServiceScanReceiptProcedure = "/tabie.v1.ReceiptService/ScanReceipt"
)

// ReceiptServiceHandler is implemented by the receipt service.
type ReceiptServiceHandler interface {
	ScanReceipt(context.Context, *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error)
}

// NewReceiptServiceHandler builds an HTTP handler from the service implementation.
func NewReceiptServiceHandler(svc ReceiptServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	o := handlerOptions(opts)
	return serviceHandler(ReceiptServiceName, map[string]http.Handler{
		ReceiptServiceScanReceiptProcedure: connect.NewUnaryHandler(ReceiptServiceScanReceiptProcedure, svc.ScanReceipt, o...),
	})
}

// ReceiptServiceClient is a client for the receipt service.
type ReceiptServiceClient struct {
	scanReceipt *connect.Client[api.ScanReceiptRequest, api.ScanReceiptResponse]
}

// NewReceiptServiceClient constructs a client for the receipt service at url.
func NewReceiptServiceClient(httpClient connect.HTTPClient, url string, opts ...connect.ClientOption) *ReceiptServiceClient {
	return &ReceiptServiceClient{
		scanReceipt: connect.NewClient[api.ScanReceiptRequest, api.ScanReceiptResponse](
			httpClient, baseURL(url)+ReceiptServiceScanReceiptProcedure, clientOptions(opts)...),
	}
}

func (c *ReceiptServiceClient) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	return c.scanReceipt.CallUnary(ctx, req)
}
