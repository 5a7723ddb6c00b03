package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"

	"github.com/mmynk/tabie/internal/calculator"
	"github.com/mmynk/tabie/internal/claims"
	"github.com/mmynk/tabie/internal/docstore"
	"github.com/mmynk/tabie/internal/metrics"
	"github.com/mmynk/tabie/internal/middleware"
	"github.com/mmynk/tabie/internal/models"
	"github.com/mmynk/tabie/internal/storage"
	"github.com/mmynk/tabie/pkg/api"
	"github.com/mmynk/tabie/pkg/api/apiconnect"
)

var _ apiconnect.TabServiceHandler = (*TabService)(nil)

// TabService implements the Connect TabService.
//
// Claim RPCs read the freshest snapshot, run the claim mutator and write the
// whole items field back. Two guests claiming at once race, and the later
// write wins.
type TabService struct {
	store   docstore.Store
	users   storage.UserStore
	rewards storage.RewardStore
	now     func() time.Time
}

// NewTabService creates a TabService. users and rewards may be nil; tabs are
// then published without payment accounts and settle without points.
func NewTabService(store docstore.Store, users storage.UserStore, rewards storage.RewardStore) *TabService {
	return &TabService{
		store:   store,
		users:   users,
		rewards: rewards,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

// storeError maps a document store failure to a Connect error.
func storeError(op, tabID string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	slog.Error(op+" failed", "tab_id", tabID, "error", err)
	return connect.NewError(connect.CodeInternal, err)
}

func getTab(ctx context.Context, store docstore.Store, tabID string) (*models.Tab, error) {
	tab, err := store.Get(ctx, tabID)
	if err != nil {
		return nil, storeError("GetTab", tabID, err)
	}
	return tab, nil
}

// adminTab loads a tab the caller must have created.
func adminTab(ctx context.Context, store docstore.Store, tabID string) (*models.Tab, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	tab, err := getTab(ctx, store, tabID)
	if err != nil {
		return nil, err
	}
	if tab.CreatedBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the organizer can change this tab"))
	}
	return tab, nil
}

func (s *TabService) getTab(ctx context.Context, tabID string) (*models.Tab, error) {
	return getTab(ctx, s.store, tabID)
}

func (s *TabService) adminTab(ctx context.Context, tabID string) (*models.Tab, error) {
	return adminTab(ctx, s.store, tabID)
}

func (s *TabService) update(ctx context.Context, tabID string, f docstore.Fields) (*models.Tab, error) {
	tab, err := s.store.Update(ctx, tabID, f)
	if err != nil {
		return nil, storeError("UpdateTab", tabID, err)
	}
	slog.Debug("Tab updated", "tab_id", tabID, "fields", f.Names(), "version", tab.Version)
	return tab, nil
}

func tabResponse(tab *models.Tab) *connect.Response[api.TabResponse] {
	return connect.NewResponse(&api.TabResponse{Tab: tab, Totals: buildTotals(tab)})
}

// CreateTab starts a tab in setup with the caller as organizer at People[0].
func (s *TabService) CreateTab(ctx context.Context, req *connect.Request[api.CreateTabRequest]) (*connect.Response[api.TabResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.OrganizerName)
	if name == "" && s.users != nil {
		if user, err := s.users.GetUserByID(ctx, userID); err == nil {
			name = user.DisplayName
		}
	}
	if name == "" {
		name = "Organizer"
	}

	method := models.SplitMethod(req.Msg.SplitTaxTipMethod)
	if method == "" {
		method = models.SplitEqual
	}

	tab := &models.Tab{
		RestaurantName: strings.TrimSpace(req.Msg.RestaurantName),
		Status:         models.TabStatusSetup,
		Items:          claims.NewItems(receiptLines(req.Msg.Items)),
		People: []models.Person{{
			ID:    uuid.New().String(),
			Name:  name,
			Color: models.ColorFor(0),
			// The organizer paid the bill; only guests owe anything.
			PaymentStatus: models.PaymentConfirmed,
			IsAdmin:       true,
		}},
		Tax:               req.Msg.Tax,
		Tip:               req.Msg.Tip,
		TipPercentage:     req.Msg.TipPercentage,
		SplitTaxTipMethod: method,
		CreatedBy:         userID,
	}
	// A typed tip wins over a percentage.
	if tab.Tip > 0 {
		tab.TipPercentage = 0
	} else if tab.TipPercentage > 0 {
		tab.Tip = tipFor(models.ItemsSubtotal(tab.Items), tab.TipPercentage)
	}
	if err := s.store.Create(ctx, tab); err != nil {
		slog.Error("CreateTab failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Tab created", "tab_id", tab.ID, "user_id", userID, "items", len(tab.Items))
	return tabResponse(tab), nil
}

// GetTab returns a snapshot. Anyone holding the tab ID may read it.
func (s *TabService) GetTab(ctx context.Context, req *connect.Request[api.GetTabRequest]) (*connect.Response[api.TabResponse], error) {
	tab, err := s.getTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	return tabResponse(tab), nil
}

// ListTabs returns the caller's tabs, newest first.
func (s *TabService) ListTabs(ctx context.Context, req *connect.Request[api.ListTabsRequest]) (*connect.Response[api.ListTabsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	tabs, err := s.store.ListByCreator(ctx, userID)
	if err != nil {
		slog.Error("ListTabs failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &api.ListTabsResponse{Tabs: make([]api.TabSummary, len(tabs))}
	for i, tab := range tabs {
		resp.Tabs[i] = tabSummary(tab)
	}
	return connect.NewResponse(resp), nil
}

// UpdateTab replaces every field set on the request.
//
// Picking a tip percentage alone sets the tip from the subtotal; typing a tip
// alone clears the percentage. Replacing items fills in missing item IDs, and
// claims held by anyone no longer on the tab are dropped.
func (s *TabService) UpdateTab(ctx context.Context, req *connect.Request[api.UpdateTabRequest]) (*connect.Response[api.TabResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}

	f := docstore.Fields{
		RestaurantName: req.Msg.RestaurantName,
		Tax:            req.Msg.Tax,
		Tip:            req.Msg.Tip,
		TipPercentage:  req.Msg.TipPercentage,
	}

	people := tab.People
	if req.Msg.People != nil {
		people = *req.Msg.People
		organizer := tab.Organizer()
		if organizer != nil && !slices.ContainsFunc(people, func(p models.Person) bool { return p.ID == organizer.ID }) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("people must include the organizer"))
		}
		f.People = &people
	}
	items := tab.Items
	if req.Msg.Items != nil {
		items = withItemIDs(*req.Msg.Items)
	}
	if req.Msg.Items != nil || req.Msg.People != nil {
		var pruned bool
		items, pruned = pruneClaims(items, people)
		if req.Msg.Items != nil || pruned {
			f.Items = &items
		}
	}

	switch {
	case req.Msg.TipPercentage != nil && req.Msg.Tip == nil:
		f.Tip = docstore.Ptr(tipFor(models.ItemsSubtotal(items), *req.Msg.TipPercentage))
	case req.Msg.Tip != nil && req.Msg.TipPercentage == nil:
		f.TipPercentage = docstore.Ptr(0.0)
	}
	if req.Msg.SplitTaxTipMethod != nil {
		f.SplitTaxTipMethod = docstore.Ptr(models.SplitMethod(*req.Msg.SplitTaxTipMethod))
	}
	if req.Msg.Status != nil {
		f.Status = docstore.Ptr(models.TabStatus(*req.Msg.Status))
	}
	if f.IsEmpty() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("no fields to update"))
	}

	updated, err := s.update(ctx, req.Msg.TabID, f)
	if err != nil {
		return nil, err
	}
	return tabResponse(updated), nil
}

func tipFor(subtotal, percentage float64) float64 {
	return calculator.Round2(subtotal * percentage / 100)
}

// withItemIDs copies items, giving a fresh ID to any item without one.
func withItemIDs(items []models.Item) []models.Item {
	next := make([]models.Item, len(items))
	for i, item := range items {
		next[i] = item.Clone()
		if next[i].ID == "" {
			next[i].ID = uuid.New().String()
		}
	}
	return next
}

// pruneClaims drops claims held by anyone not in people. It reports whether
// any claim was dropped.
func pruneClaims(items []models.Item, people []models.Person) ([]models.Item, bool) {
	onTab := make(map[string]bool, len(people))
	for _, p := range people {
		onTab[p.ID] = true
	}
	var gone []string
	for _, item := range items {
		for _, id := range item.AssignedTo {
			if !onTab[id] && !slices.Contains(gone, id) {
				gone = append(gone, id)
			}
		}
		for id := range item.Assignments {
			if !onTab[id] && !slices.Contains(gone, id) {
				gone = append(gone, id)
			}
		}
	}
	for _, id := range gone {
		items = claims.RemovePerson(items, id)
	}
	return items, len(gone) > 0
}

// DeleteTab removes the tab. Subscribers receive a final deleted event.
func (s *TabService) DeleteTab(ctx context.Context, req *connect.Request[api.DeleteTabRequest]) (*connect.Response[api.DeleteTabResponse], error) {
	if _, err := s.adminTab(ctx, req.Msg.TabID); err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, req.Msg.TabID); err != nil {
		return nil, storeError("DeleteTab", req.Msg.TabID, err)
	}
	slog.Info("Tab deleted", "tab_id", req.Msg.TabID)
	return connect.NewResponse(&api.DeleteTabResponse{}), nil
}

// PublishTab opens the tab to guests and snapshots the organizer's payment
// accounts onto it.
func (s *TabService) PublishTab(ctx context.Context, req *connect.Request[api.PublishTabRequest]) (*connect.Response[api.TabResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}

	f := docstore.Fields{Status: docstore.Ptr(models.TabStatusOpen)}
	if s.users != nil {
		user, err := s.users.GetUserByID(ctx, tab.CreatedBy)
		switch {
		case err == nil:
			accounts := user.PaymentAccounts
			accounts.AdminName = user.DisplayName
			f.AdminPaymentAccounts = &accounts
		case errors.Is(err, storage.ErrUserNotFound):
			slog.Warn("Publishing tab without payment accounts", "tab_id", tab.ID, "user_id", tab.CreatedBy)
		default:
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	updated, err := s.update(ctx, tab.ID, f)
	if err != nil {
		return nil, err
	}
	slog.Info("Tab published", "tab_id", tab.ID)
	return tabResponse(updated), nil
}

// addPerson appends a participant with a fresh ID and the next chip color.
func (s *TabService) addPerson(ctx context.Context, tab *models.Tab, name, phone string) (*connect.Response[api.JoinTabResponse], error) {
	person := models.Person{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(name),
		Phone:         strings.TrimSpace(phone),
		Color:         models.ColorFor(len(tab.People)),
		PaymentStatus: models.PaymentPending,
	}
	people := append(slices.Clone(tab.People), person)

	updated, err := s.update(ctx, tab.ID, docstore.Fields{People: &people})
	if err != nil {
		return nil, err
	}
	slog.Info("Person added", "tab_id", tab.ID, "person_id", person.ID)
	return connect.NewResponse(&api.JoinTabResponse{
		PersonID: person.ID,
		Tab:      updated,
		Totals:   buildTotals(updated),
	}), nil
}

// JoinTab adds a guest to an open tab.
func (s *TabService) JoinTab(ctx context.Context, req *connect.Request[api.JoinTabRequest]) (*connect.Response[api.JoinTabResponse], error) {
	tab, err := s.getTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	if tab.Status != models.TabStatusOpen {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("tab is not open for joining"))
	}
	return s.addPerson(ctx, tab, req.Msg.Name, req.Msg.Phone)
}

// AddPerson lets the organizer add someone by name, in any status.
func (s *TabService) AddPerson(ctx context.Context, req *connect.Request[api.AddPersonRequest]) (*connect.Response[api.JoinTabResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	return s.addPerson(ctx, tab, req.Msg.Name, req.Msg.Phone)
}

// RemovePerson drops a guest and every claim they hold.
func (s *TabService) RemovePerson(ctx context.Context, req *connect.Request[api.RemovePersonRequest]) (*connect.Response[api.TabResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(tab.People, func(p models.Person) bool { return p.ID == req.Msg.PersonID })
	if idx < 0 {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("person %s is not on this tab", req.Msg.PersonID))
	}
	if idx == 0 {
		return nil, connect.NewError(connect.CodeFailedPrecondition, fmt.Errorf("the organizer cannot be removed"))
	}

	people := slices.Delete(slices.Clone(tab.People), idx, idx+1)
	items := claims.RemovePerson(tab.Items, req.Msg.PersonID)
	updated, err := s.update(ctx, tab.ID, docstore.Fields{People: &people, Items: &items})
	if err != nil {
		return nil, err
	}
	return tabResponse(updated), nil
}

// SetItems replaces every item with the given receipt lines. Existing claims
// are discarded.
func (s *TabService) SetItems(ctx context.Context, req *connect.Request[api.SetItemsRequest]) (*connect.Response[api.TabResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	items := claims.NewItems(receiptLines(req.Msg.Items))
	updated, err := s.update(ctx, tab.ID, docstore.Fields{Items: &items})
	if err != nil {
		return nil, err
	}
	return tabResponse(updated), nil
}

func (s *TabService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.TabResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	items := claims.AddItem(tab.Items, req.Msg.Description, req.Msg.Price)
	updated, err := s.update(ctx, tab.ID, docstore.Fields{Items: &items})
	if err != nil {
		return nil, err
	}
	return tabResponse(updated), nil
}

func (s *TabService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.TabResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	if tab.FindItem(req.Msg.ItemID) == nil {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("item %s not found", req.Msg.ItemID))
	}
	items := claims.RemoveItem(tab.Items, req.Msg.ItemID)
	updated, err := s.update(ctx, tab.ID, docstore.Fields{Items: &items})
	if err != nil {
		return nil, err
	}
	return tabResponse(updated), nil
}

// mutateItem applies fn to one item of the freshest snapshot and writes the
// whole items field back. Every person in personIDs must be on the tab.
func (s *TabService) mutateItem(ctx context.Context, tabID, itemID string, personIDs []string, fn func(models.Item) models.Item) (*connect.Response[api.TabResponse], error) {
	tab, err := s.getTab(ctx, tabID)
	if err != nil {
		return nil, err
	}
	for _, id := range personIDs {
		if tab.FindPerson(id) == nil {
			return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("person %s is not on this tab", id))
		}
	}

	items, ok := claims.Apply(tab.Items, itemID, fn)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("item %s not found", itemID))
	}
	updated, err := s.update(ctx, tabID, docstore.Fields{Items: &items})
	if err != nil {
		return nil, err
	}
	return tabResponse(updated), nil
}

func (s *TabService) ToggleClaim(ctx context.Context, req *connect.Request[api.ToggleClaimRequest]) (*connect.Response[api.TabResponse], error) {
	personID := req.Msg.PersonID
	return s.mutateItem(ctx, req.Msg.TabID, req.Msg.ItemID, []string{personID}, func(item models.Item) models.Item {
		return claims.ToggleClaim(item, personID)
	})
}

func (s *TabService) SetQuantityClaim(ctx context.Context, req *connect.Request[api.SetQuantityClaimRequest]) (*connect.Response[api.TabResponse], error) {
	personID, qty := req.Msg.PersonID, req.Msg.Quantity
	return s.mutateItem(ctx, req.Msg.TabID, req.Msg.ItemID, []string{personID}, func(item models.Item) models.Item {
		return claims.SetQuantityClaim(item, personID, qty)
	})
}

func (s *TabService) SetFractionalShare(ctx context.Context, req *connect.Request[api.SetFractionalShareRequest]) (*connect.Response[api.TabResponse], error) {
	personID := req.Msg.PersonID
	share := models.Fraction(req.Msg.Share.N, req.Msg.Share.D)
	return s.mutateItem(ctx, req.Msg.TabID, req.Msg.ItemID, []string{personID}, func(item models.Item) models.Item {
		return claims.SetFractionalShare(item, personID, share)
	})
}

func (s *TabService) ClearAssignments(ctx context.Context, req *connect.Request[api.ClearAssignmentsRequest]) (*connect.Response[api.TabResponse], error) {
	return s.mutateItem(ctx, req.Msg.TabID, req.Msg.ItemID, nil, claims.ClearAssignments)
}

func (s *TabService) SplitEvenly(ctx context.Context, req *connect.Request[api.SplitEvenlyRequest]) (*connect.Response[api.TabResponse], error) {
	personIDs := req.Msg.PersonIDs
	return s.mutateItem(ctx, req.Msg.TabID, req.Msg.ItemID, personIDs, func(item models.Item) models.Item {
		return claims.SplitEvenly(item, personIDs)
	})
}

// GetTotals returns the computed split for the current snapshot.
func (s *TabService) GetTotals(ctx context.Context, req *connect.Request[api.GetTotalsRequest]) (*connect.Response[api.GetTotalsResponse], error) {
	tab, err := s.getTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetTotalsResponse{Totals: buildTotals(tab)}), nil
}

// setPayment rewrites one person's payment fields. When every person is
// confirmed the tab completes and the organizer is rewarded.
func (s *TabService) setPayment(ctx context.Context, tab *models.Tab, personID string, fn func(*models.Person)) (*connect.Response[api.PaymentResponse], error) {
	people := slices.Clone(tab.People)
	idx := slices.IndexFunc(people, func(p models.Person) bool { return p.ID == personID })
	if idx < 0 {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("person %s is not on this tab", personID))
	}
	fn(&people[idx])

	f := docstore.Fields{People: &people}
	settled := &models.Tab{People: people}
	if settled.AllConfirmed() && tab.Status != models.TabStatusCompleted {
		f.Status = docstore.Ptr(models.TabStatusCompleted)
	}
	updated, err := s.update(ctx, tab.ID, f)
	if err != nil {
		return nil, err
	}

	updated, points := s.award(ctx, updated)
	return connect.NewResponse(&api.PaymentResponse{
		Tab:          updated,
		Totals:       buildTotals(updated),
		PointsEarned: points,
	}), nil
}

// award records the organizer's points for a completed tab, once. Failures
// are logged; the payment change itself has already been written.
func (s *TabService) award(ctx context.Context, tab *models.Tab) (*models.Tab, int64) {
	if s.rewards == nil || tab.PointsAwarded || tab.Status != models.TabStatusCompleted || !tab.AllConfirmed() {
		return tab, 0
	}

	entry := &models.RewardEntry{
		ID:           uuid.New().String(),
		UserID:       tab.CreatedBy,
		TabID:        tab.ID,
		TabName:      tab.RestaurantName,
		Subtotal:     tab.Subtotal,
		PointsEarned: calculator.RewardPoints(tab.Subtotal),
		EarnedAt:     s.now().Unix(),
	}
	added, err := s.rewards.AddRewardEntry(ctx, entry)
	if err != nil {
		slog.Error("Failed to award points", "tab_id", tab.ID, "user_id", tab.CreatedBy, "error", err)
		return tab, 0
	}

	updated, err := s.store.Update(ctx, tab.ID, docstore.Fields{PointsAwarded: docstore.Ptr(true)})
	if err != nil {
		slog.Error("Failed to mark points awarded", "tab_id", tab.ID, "error", err)
		updated = tab
	}
	if !added {
		return updated, 0
	}

	metrics.RewardPoints.Add(float64(entry.PointsEarned))
	slog.Info("Points awarded", "tab_id", tab.ID, "user_id", tab.CreatedBy, "points", entry.PointsEarned)
	return updated, entry.PointsEarned
}

// ClaimPayment is the guest reporting that they paid.
func (s *TabService) ClaimPayment(ctx context.Context, req *connect.Request[api.ClaimPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	tab, err := s.getTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.setPayment(ctx, tab, req.Msg.PersonID, func(p *models.Person) {
		if p.PaymentStatus == models.PaymentConfirmed {
			return
		}
		p.PaymentStatus = models.PaymentClaimed
		p.PaidAt = &now
		p.PaidVia = req.Msg.PaidVia
	})
}

// ConfirmPayment is the organizer acknowledging a payment.
func (s *TabService) ConfirmPayment(ctx context.Context, req *connect.Request[api.ConfirmPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.setPayment(ctx, tab, req.Msg.PersonID, func(p *models.Person) {
		p.PaymentStatus = models.PaymentConfirmed
		if p.PaidAt == nil {
			p.PaidAt = &now
		}
		if req.Msg.PaidVia != "" {
			p.PaidVia = req.Msg.PaidVia
		}
	})
}

// RejectPayment resets a claimed payment to pending.
func (s *TabService) RejectPayment(ctx context.Context, req *connect.Request[api.RejectPaymentRequest]) (*connect.Response[api.PaymentResponse], error) {
	tab, err := s.adminTab(ctx, req.Msg.TabID)
	if err != nil {
		return nil, err
	}
	return s.setPayment(ctx, tab, req.Msg.PersonID, func(p *models.Person) {
		p.PaymentStatus = models.PaymentPending
		p.PaidAt = nil
		p.PaidVia = ""
	})
}

// Subscribe streams the current snapshot and every later one. A deleted
// event ends the stream.
func (s *TabService) Subscribe(ctx context.Context, req *connect.Request[api.SubscribeRequest], stream *connect.ServerStream[api.TabEvent]) error {
	if _, err := s.getTab(ctx, req.Msg.TabID); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan *models.Tab)
	unsubscribe, err := s.store.Subscribe(ctx, req.Msg.TabID, func(tab *models.Tab) {
		select {
		case updates <- tab:
		case <-ctx.Done():
		}
	})
	if err != nil {
		return storeError("Subscribe", req.Msg.TabID, err)
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case tab := <-updates:
			if tab == nil {
				return stream.Send(&api.TabEvent{Deleted: true})
			}
			if err := stream.Send(&api.TabEvent{Tab: tab, Totals: buildTotals(tab)}); err != nil {
				return err
			}
		}
	}
}
