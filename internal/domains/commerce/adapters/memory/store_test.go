package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
)

func saveProduct(t *testing.T, store *Store, name string, stock int) *domain.Product {
	t.Helper()
	var saved *domain.Product
	err := store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		var err error
		saved, err = repos.Products().Save(ctx, &domain.Product{Name: name, Price: decimal.RequireFromString("10.00"), UnitsInStock: stock})
		return err
	})
	require.NoError(t, err)
	return saved
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	first := saveProduct(t, store, "Keyboard", 3)
	second := saveProduct(t, store, "Monitor", 1)
	require.Equal(t, int64(1), first.ID)
	require.Equal(t, int64(2), second.ID)

	err := store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		found, err := repos.Products().FindByNameIgnoreCase(ctx, "KEYBOARD")
		require.NoError(t, err)
		require.Equal(t, first.ID, found.ID)

		exists, err := repos.Products().ExistsByNameIgnoreCase(ctx, "monitor")
		require.NoError(t, err)
		require.True(t, exists)

		all, err := repos.Products().FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	store := NewStore()
	product := saveProduct(t, store, "Keyboard", 3)
	boom := errors.New("boom")

	err := store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		product.UnitsInStock = 0
		if _, err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		if _, err := repos.OrderItems().Save(ctx, &domain.OrderItem{ProductID: product.ID, Quantity: 3}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		reloaded, err := repos.Products().FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.Equal(t, 3, reloaded.UnitsInStock)

		items, err := repos.OrderItems().FindAll(ctx)
		require.NoError(t, err)
		require.Empty(t, items)
		return nil
	})
	require.NoError(t, err)
}

func TestRepositories_ReturnCopies(t *testing.T) {
	store := NewStore()
	product := saveProduct(t, store, "Keyboard", 3)
	product.UnitsInStock = 99

	err := store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		reloaded, err := repos.Products().FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.Equal(t, 3, reloaded.UnitsInStock)
		return nil
	})
	require.NoError(t, err)
}

func TestOrderItemRepository_Lookups(t *testing.T) {
	store := NewStore()
	err := store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		items := repos.OrderItems()
		for _, productID := range []int64{1, 2, 1} {
			_, err := items.Save(ctx, &domain.OrderItem{ProductID: productID, Quantity: 1})
			require.NoError(t, err)
		}

		byID, err := items.FindAllByID(ctx, []int64{3, 9, 1})
		require.NoError(t, err)
		require.Len(t, byID, 2)
		require.Equal(t, int64(3), byID[0].ID)
		require.Equal(t, int64(1), byID[1].ID)

		byProduct, err := items.FindByProductID(ctx, 1)
		require.NoError(t, err)
		require.Len(t, byProduct, 2)

		_, err = items.FindByID(ctx, 42)
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.ErrorIs(t, items.Delete(ctx, 42), domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	store := NewStore()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	store.WithClock(func() time.Time { return fixed })

	err := store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		keys := repos.IdempotencyKeys()
		missing, err := keys.Get(ctx, "k1")
		require.NoError(t, err)
		require.Nil(t, missing)

		saved, err := keys.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: 1})
		require.NoError(t, err)
		require.Equal(t, fixed, saved.CreatedAt)

		again, err := keys.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h1", OrderID: 1})
		require.NoError(t, err)
		require.Equal(t, int64(1), again.OrderID)

		existing, err := keys.Save(ctx, ports.IdempotencyRecord{Key: "k1", RequestHash: "h2", OrderID: 1})
		require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
		require.ErrorIs(t, err, domain.ErrConflict)
		require.Equal(t, "h1", existing.RequestHash)
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTx_SerializesConcurrentUnits(t *testing.T) {
	store := NewStore()
	product := saveProduct(t, store, "Keyboard", 50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
				p, err := repos.Products().FindByID(ctx, product.ID)
				if err != nil {
					return err
				}
				if err := p.Reserve(1); err != nil {
					return err
				}
				_, err = repos.Products().Save(ctx, p)
				return err
			})
		}()
	}
	wg.Wait()

	err := store.WithinTx(context.Background(), func(ctx context.Context, repos ports.Repositories) error {
		p, err := repos.Products().FindByID(ctx, product.ID)
		require.NoError(t, err)
		require.Equal(t, 0, p.UnitsInStock)
		return nil
	})
	require.NoError(t, err)
}

func TestWithinTx_HonoursCancelledContext(t *testing.T) {
	store := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := store.WithinTx(ctx, func(context.Context, ports.Repositories) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}
