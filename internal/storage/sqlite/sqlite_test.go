package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/tabie/internal/claims"
	"github.com/mmynk/tabie/internal/docstore"
	"github.com/mmynk/tabie/internal/models"
	"github.com/mmynk/tabie/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTab(createdBy string) *models.Tab {
	return &models.Tab{
		RestaurantName: "Luigi's",
		CreatedBy:      createdBy,
		People: []models.Person{
			{ID: "org", Name: "Organizer", IsAdmin: true},
			{ID: "guest", Name: "Guest"},
		},
		Items: claims.NewItems([]claims.ReceiptLine{
			{Description: "Pizza", Quantity: 1, TotalPrice: 20},
			{Description: "Pasta", Quantity: 1, TotalPrice: 10},
		}),
		Tax: 3,
		Tip: 4,
	}
}

func TestTabDocuments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("Create fills ID, version and subtotal", func(t *testing.T) {
		tab := sampleTab("user-1")
		if err := store.Create(ctx, tab); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if tab.ID == "" {
			t.Error("Expected tab ID to be generated")
		}
		if tab.Version != 1 {
			t.Errorf("Expected version 1, got %d", tab.Version)
		}
		if tab.Subtotal != 30 {
			t.Errorf("Expected subtotal 30, got %v", tab.Subtotal)
		}
		if tab.Status != models.TabStatusSetup {
			t.Errorf("Expected status setup, got %s", tab.Status)
		}
	})

	t.Run("Get round-trips the document", func(t *testing.T) {
		tab := sampleTab("user-1")
		tab.Items[0].Assignments = map[string]models.Share{"org": models.Fraction(1, 3), "guest": models.Fraction(2, 3)}
		tab.Items[0].AssignedTo = []string{"org", "guest"}
		if err := store.Create(ctx, tab); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		got, err := store.Get(ctx, tab.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.RestaurantName != "Luigi's" {
			t.Errorf("Expected restaurant name Luigi's, got %s", got.RestaurantName)
		}
		if len(got.Items) != 2 || len(got.People) != 2 {
			t.Fatalf("Expected 2 items and 2 people, got %d and %d", len(got.Items), len(got.People))
		}
		if share := got.Items[0].Assignments["guest"]; share != models.Fraction(2, 3) {
			t.Errorf("Expected share 2/3, got %s", share)
		}
		if got.Items[1].Assignments == nil {
			t.Error("Expected empty assignments map to be materialized")
		}
	})

	t.Run("Get missing tab returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update replaces only the named fields", func(t *testing.T) {
		tab := sampleTab("user-1")
		if err := store.Create(ctx, tab); err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		items := claims.AddItem(tab.Items, "Tiramisu", 8)
		got, err := store.Update(ctx, tab.ID, docstore.Fields{
			Items: &items,
			Tip:   docstore.Ptr(6.0),
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if got.Version != 2 {
			t.Errorf("Expected version 2, got %d", got.Version)
		}
		if got.Subtotal != 38 {
			t.Errorf("Expected subtotal 38, got %v", got.Subtotal)
		}
		if got.Tip != 6 || got.Tax != 3 {
			t.Errorf("Expected tip 6 and tax 3, got %v and %v", got.Tip, got.Tax)
		}
		if !got.UpdatedAt.After(tab.CreatedAt) && !got.UpdatedAt.Equal(tab.CreatedAt) {
			t.Error("Expected UpdatedAt to move forward")
		}
	})

	t.Run("Update missing tab returns ErrNotFound", func(t *testing.T) {
		_, err := store.Update(ctx, "missing", docstore.Fields{Tax: docstore.Ptr(1.0)})
		if !errors.Is(err, docstore.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete removes the tab", func(t *testing.T) {
		tab := sampleTab("user-1")
		if err := store.Create(ctx, tab); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := store.Delete(ctx, tab.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := store.Get(ctx, tab.ID); !errors.Is(err, docstore.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.Delete(ctx, tab.ID); !errors.Is(err, docstore.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestListByCreator(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := sampleTab("alice")
	first.RestaurantName = "First"
	second := sampleTab("alice")
	second.RestaurantName = "Second"
	second.CreatedAt = time.Now().Add(time.Minute)
	other := sampleTab("bob")

	for _, tab := range []*models.Tab{first, second, other} {
		if err := store.Create(ctx, tab); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	tabs, err := store.ListByCreator(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(tabs) != 2 {
		t.Fatalf("Expected 2 tabs, got %d", len(tabs))
	}
	if tabs[0].RestaurantName != "Second" {
		t.Errorf("Expected newest tab first, got %s", tabs[0].RestaurantName)
	}

	none, err := store.ListByCreator(ctx, "nobody")
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("Expected no tabs, got %d", len(none))
	}
}

// Two clients claim different people on the same item from the same snapshot.
// The whole items field is replaced, so the second write discards the first
// client's claim.
func TestUpdate_LastWriterWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tab := sampleTab("user-1")
	if err := store.Create(ctx, tab); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	base, err := store.Get(ctx, tab.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	itemID := base.Items[0].ID

	first, _ := claims.Apply(base.Items, itemID, func(it models.Item) models.Item {
		return claims.SetFractionalShare(it, "org", models.Fraction(1, 2))
	})
	second, _ := claims.Apply(base.Items, itemID, func(it models.Item) models.Item {
		return claims.SetFractionalShare(it, "guest", models.Fraction(1, 2))
	})

	if _, err := store.Update(ctx, tab.ID, docstore.Fields{Items: &first}); err != nil {
		t.Fatalf("first Update failed: %v", err)
	}
	if _, err := store.Update(ctx, tab.ID, docstore.Fields{Items: &second}); err != nil {
		t.Fatalf("second Update failed: %v", err)
	}

	got, err := store.Get(ctx, tab.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	item := got.FindItem(itemID)
	if item.IsAssigned("org") {
		t.Error("Expected the first writer's claim to be lost")
	}
	if !item.IsAssigned("guest") {
		t.Error("Expected the second writer's claim to be kept")
	}
	if got.Version != 3 {
		t.Errorf("Expected version 3, got %d", got.Version)
	}
}

func TestSubscribe(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tab := sampleTab("user-1")
	if err := store.Create(ctx, tab); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	snapshots := make(chan *models.Tab, 16)
	unsubscribe, err := store.Subscribe(ctx, tab.ID, func(tab *models.Tab) {
		snapshots <- tab
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer unsubscribe()

	next := func() *models.Tab {
		t.Helper()
		select {
		case s := <-snapshots:
			return s
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for snapshot")
			return nil
		}
	}

	if first := next(); first == nil || first.Version != 1 {
		t.Fatalf("Expected current snapshot at version 1, got %+v", first)
	}

	if _, err := store.Update(ctx, tab.ID, docstore.Fields{Tax: docstore.Ptr(5.0)}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated := next(); updated == nil || updated.Tax != 5 {
		t.Fatalf("Expected updated snapshot with tax 5, got %+v", updated)
	}

	if err := store.Delete(ctx, tab.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted := next(); deleted != nil {
		t.Fatalf("Expected nil snapshot after delete, got %+v", deleted)
	}
}

func TestSubscribe_MissingTab(t *testing.T) {
	store := newTestStore(t)

	got := make(chan *models.Tab, 1)
	unsubscribe, err := store.Subscribe(context.Background(), "missing", func(tab *models.Tab) {
		got <- tab
	})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer unsubscribe()

	select {
	case tab := <-got:
		if tab != nil {
			t.Errorf("Expected nil snapshot, got %+v", tab)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestSubscribe_CancelStopsDelivery(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	tab := sampleTab("user-1")
	if err := store.Create(ctx, tab); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := store.Subscribe(ctx, tab.ID, func(*models.Tab) {}); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if n := store.hub.Len(tab.ID); n != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", n)
	}

	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for store.hub.Len(tab.ID) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber was not removed after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "Alice", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other", "hash")
		if err := store.CreateUser(ctx, dup); err == nil {
			t.Error("Expected duplicate email to fail")
		}
	})

	t.Run("lookup by email and ID", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		byID, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byEmail.ID != user.ID || byID.Email != user.Email {
			t.Errorf("Expected lookups to return the same user, got %+v and %+v", byEmail, byID)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("payment accounts", func(t *testing.T) {
		accounts := models.PaymentAccounts{Venmo: "alice-v", CashApp: "alicecash", PayPal: "alicepp"}
		if err := store.UpdatePaymentAccounts(ctx, user.ID, accounts); err != nil {
			t.Fatalf("UpdatePaymentAccounts failed: %v", err)
		}
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.PaymentAccounts.Venmo != "alice-v" || got.PaymentAccounts.PayPal != "alicepp" {
			t.Errorf("Expected updated accounts, got %+v", got.PaymentAccounts)
		}
		if err := store.UpdatePaymentAccounts(ctx, "missing", accounts); !errors.Is(err, storage.ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestRewards(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("org@example.com", "Org", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	entries := []*models.RewardEntry{
		{UserID: user.ID, TabID: "tab-1", TabName: "Luigi's", Subtotal: 42.75, PointsEarned: 42, EarnedAt: 100},
		{UserID: user.ID, TabID: "tab-2", TabName: "Sushi", Subtotal: 10.1, PointsEarned: 10, EarnedAt: 200},
	}
	for _, e := range entries {
		added, err := store.AddRewardEntry(ctx, e)
		if err != nil {
			t.Fatalf("AddRewardEntry failed: %v", err)
		}
		if !added {
			t.Errorf("Expected entry for %s to be added", e.TabID)
		}
	}

	again, err := store.AddRewardEntry(ctx, &models.RewardEntry{UserID: user.ID, TabID: "tab-1", TabName: "Luigi's", PointsEarned: 42})
	if err != nil {
		t.Fatalf("AddRewardEntry failed: %v", err)
	}
	if again {
		t.Error("Expected a tab to be rewarded only once")
	}

	rewards, err := store.GetRewards(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetRewards failed: %v", err)
	}
	if rewards.Balance != 52 || rewards.Lifetime != 52 {
		t.Errorf("Expected 52 points, got balance %d lifetime %d", rewards.Balance, rewards.Lifetime)
	}
	if len(rewards.History) != 2 || rewards.History[0].TabID != "tab-2" {
		t.Errorf("Expected newest entry first, got %+v", rewards.History)
	}
}
