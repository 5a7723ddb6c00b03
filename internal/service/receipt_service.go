package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tabie/internal/claims"
	"github.com/mmynk/tabie/internal/docstore"
	"github.com/mmynk/tabie/internal/models"
	"github.com/mmynk/tabie/internal/receipt"
	"github.com/mmynk/tabie/pkg/api"
	"github.com/mmynk/tabie/pkg/api/apiconnect"
)

var _ apiconnect.ReceiptServiceHandler = (*ReceiptService)(nil)

// ReceiptService scans receipt photos into line items.
type ReceiptService struct {
	extractor receipt.Extractor
	images    receipt.ImageStore
	store     docstore.Store
}

// NewReceiptService creates a ReceiptService. images may be nil, in which
// case photos are not kept.
func NewReceiptService(extractor receipt.Extractor, images receipt.ImageStore, store docstore.Store) *ReceiptService {
	return &ReceiptService{extractor: extractor, images: images, store: store}
}

// ScanReceipt extracts the receipt. With a tab ID it also replaces that tab's
// items with the scanned lines, fills in tax, tip and restaurant name when
// the receipt has them, and attaches the uploaded photo.
func (s *ReceiptService) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	// The organizer check runs before any scan.
	var tab *models.Tab
	if req.Msg.TabID != "" {
		if tab, err = adminTab(ctx, s.store, req.Msg.TabID); err != nil {
			return nil, err
		}
	}

	r, err := s.extractor.Extract(ctx, req.Msg.Image, req.Msg.Filename)
	if err != nil {
		slog.Error("Receipt extraction failed", "user_id", userID, "error", err)
		if errors.Is(err, receipt.ErrTimeout) {
			return nil, connect.NewError(connect.CodeDeadlineExceeded, err)
		}
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	slog.Info("Receipt scanned", "user_id", userID, "lines", len(r.Lines), "restaurant", r.RestaurantName)

	resp := &api.ScanReceiptResponse{
		RestaurantName: r.RestaurantName,
		Date:           r.Date,
		Items:          make([]api.LineInput, len(r.Lines)),
		Subtotal:       r.Subtotal,
		Tax:            r.Tax,
		Tip:            r.Tip,
		Total:          r.Total,
		TipSuggestions: tipSuggestions(r.Subtotal),
	}
	lines := make([]claims.ReceiptLine, len(r.Lines))
	for i, line := range r.Lines {
		resp.Items[i] = api.LineInput{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
		}
		lines[i] = claims.ReceiptLine(line)
	}

	if tab == nil {
		return connect.NewResponse(resp), nil
	}

	items := claims.NewItems(lines)
	f := docstore.Fields{Items: &items}
	if tab.RestaurantName == "" && r.RestaurantName != "" {
		f.RestaurantName = &r.RestaurantName
	}
	if r.Tax > 0 {
		f.Tax = &r.Tax
	}
	if r.Tip > 0 {
		f.Tip = &r.Tip
		f.TipPercentage = docstore.Ptr(0.0)
	}
	if s.images != nil {
		url, err := s.images.Upload(ctx, tab.ID, req.Msg.Image, req.Msg.Filename)
		if err != nil {
			slog.Warn("Receipt image not stored", "tab_id", tab.ID, "error", err)
		} else {
			resp.ReceiptImageURL = url
			f.ReceiptImageURL = &url
		}
	}

	updated, err := s.store.Update(ctx, tab.ID, f)
	if err != nil {
		return nil, storeError("ScanReceipt", tab.ID, err)
	}
	resp.Tab = updated
	resp.Totals = buildTotals(updated)
	return connect.NewResponse(resp), nil
}
