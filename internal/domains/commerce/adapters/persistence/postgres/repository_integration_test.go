//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/application/types"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/domain"
	"github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/ports"
	"github.com/Apurer/go-gin-commerce-api/internal/platform/migrations"
)

func setupCommercePostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("commerce_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestUnitOfWork_OrderLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCommercePostgresContainer(t)
	defer cleanup()

	uow := NewUnitOfWork(db)
	products := application.NewProductService(uow)
	inventory := application.NewInventoryCoordinator(uow)
	orders := application.NewOrderAggregator(uow)
	ctx := context.Background()

	product, err := products.Create(ctx, types.ProductInput{Name: "Widget", Price: decimal.RequireFromString("50.00"), UnitsInStock: 10})
	require.NoError(t, err)
	_, err = products.Create(ctx, types.ProductInput{Name: "WIDGET", Price: decimal.RequireFromString("1.00"), UnitsInStock: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	item1, err := inventory.Create(ctx, types.OrderItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	item2, err := inventory.Create(ctx, types.OrderItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	order, err := orders.Create(ctx, types.OrderInput{CustomerName: "John Doe", Address: "1 Elm St", OrderItemIDs: []int64{item1.ID, item2.ID}, IdempotencyKey: "k-1"})
	require.NoError(t, err)
	assert.Equal(t, "200.00", order.TotalPrice.StringFixed(2))
	assert.Equal(t, []int64{item1.ID, item2.ID}, order.OrderItemIDs)

	replayed, err := orders.Create(ctx, types.OrderInput{CustomerName: "John Doe", Address: "1 Elm St", OrderItemIDs: []int64{item1.ID, item2.ID}, IdempotencyKey: "k-1"})
	require.NoError(t, err)
	assert.Equal(t, order.ID, replayed.ID)

	order, err = orders.Update(ctx, order.ID, types.OrderInput{CustomerName: "John Doe", Address: "1 Elm St", OrderItemIDs: []int64{item1.ID}})
	require.NoError(t, err)
	assert.Equal(t, "50.00", order.TotalPrice.StringFixed(2))

	dropped, err := inventory.Get(ctx, item2.ID)
	require.NoError(t, err)
	assert.False(t, dropped.Bound())

	_, err = inventory.Update(ctx, item1.ID, types.OrderItemInput{ProductID: product.ID, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, orders.Delete(ctx, order.ID))
	released, err := inventory.Get(ctx, item1.ID)
	require.NoError(t, err)
	assert.False(t, released.Bound())

	require.NoError(t, inventory.Delete(ctx, item1.ID))
	require.NoError(t, inventory.Delete(ctx, item2.ID))
	reloaded, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.UnitsInStock)
}

func TestUnitOfWork_PersistsLargeLineAndOrderTotals(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCommercePostgresContainer(t)
	defer cleanup()

	uow := NewUnitOfWork(db)
	products := application.NewProductService(uow)
	inventory := application.NewInventoryCoordinator(uow)
	orders := application.NewOrderAggregator(uow)
	ctx := context.Background()

	product, err := products.Create(ctx, types.ProductInput{Name: "Yacht", Price: decimal.RequireFromString("9999999999.99"), UnitsInStock: 2000})
	require.NoError(t, err)

	first, err := inventory.Create(ctx, types.OrderItemInput{ProductID: product.ID, Quantity: 1000})
	require.NoError(t, err)
	assert.Equal(t, "9999999999990.00", first.OrderItemPrice.StringFixed(2))
	second, err := inventory.Create(ctx, types.OrderItemInput{ProductID: product.ID, Quantity: 1000})
	require.NoError(t, err)

	order, err := orders.Create(ctx, types.OrderInput{CustomerName: "Big Spender", Address: "1 Harbour Rd", OrderItemIDs: []int64{first.ID, second.ID}})
	require.NoError(t, err)
	assert.Equal(t, "19999999999980.00", order.TotalPrice.StringFixed(2))

	reloaded, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "19999999999980.00", reloaded.TotalPrice.StringFixed(2))
}

func TestUnitOfWork_RollsBackFailedMutation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCommercePostgresContainer(t)
	defer cleanup()

	uow := NewUnitOfWork(db)
	products := application.NewProductService(uow)
	inventory := application.NewInventoryCoordinator(uow)
	orders := application.NewOrderAggregator(uow)
	ctx := context.Background()

	product, err := products.Create(ctx, types.ProductInput{Name: "Widget", Price: decimal.RequireFromString("10.00"), UnitsInStock: 4})
	require.NoError(t, err)
	item, err := inventory.Create(ctx, types.OrderItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = inventory.Update(ctx, item.ID, types.OrderItemInput{ProductID: product.ID, Quantity: 10})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = orders.Create(ctx, types.OrderInput{CustomerName: "Ana", Address: "x", OrderItemIDs: []int64{item.ID, 999}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	reloaded, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.UnitsInStock)

	list, err := orders.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	stillFree, err := inventory.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, stillFree.Bound())
}

func TestUnitOfWork_ConcurrentReservationsNeverOversell(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCommercePostgresContainer(t)
	defer cleanup()

	uow := NewUnitOfWork(db)
	products := application.NewProductService(uow)
	inventory := application.NewInventoryCoordinator(uow)
	ctx := context.Background()

	product, err := products.Create(ctx, types.ProductInput{Name: "Widget", Price: decimal.RequireFromString("1.00"), UnitsInStock: 10})
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := inventory.Create(ctx, types.OrderItemInput{ProductID: product.ID, Quantity: 1})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	reloaded, err := products.Get(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.UnitsInStock)
}

func TestIdempotencyStore_SaveConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCommercePostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: 1})
	require.NoError(t, err)
	assert.Equal(t, "h1", saved.RequestHash)

	again, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h2", OrderID: 2})
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.NotNil(t, existing)
	assert.Equal(t, "h1", existing.RequestHash)

	missing, err := store.Get(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, missing)

	purged, err := store.PurgeExpired(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
	gone, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
