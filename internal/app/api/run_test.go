package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	commercememory "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/memory"
	commerceworkflows "github.com/Apurer/go-gin-commerce-api/internal/domains/commerce/adapters/workflows"
	"github.com/Apurer/go-gin-commerce-api/internal/platform/httpmetrics"
)

func TestNewRouter_ServesCommerceHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	router := NewRouter(BuildServices(commercememory.NewStore(), nil), httpmetrics.NewWithRegistry(registry, registry), "https://errors.example.com")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(`{"name":"Widget","price":"9.99","unitsInStock":2}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/5", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://errors.example.com/problems/not-found")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/products",status="201"`)
}

func TestOpenUnitOfWork_FallsBackToMemory(t *testing.T) {
	store, err := OpenUnitOfWork(context.Background(), Config{}, effectiveLogger(nil))
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &commercememory.Store{}, store.UnitOfWork)
	assert.False(t, store.Shared)
	assert.ErrorIs(t, requireSharedStore(store), errWorkerNeedsSharedStore)
}

func TestUseTemporalWorkflows_KeepsInlineForProcessLocalStore(t *testing.T) {
	store := Store{UnitOfWork: commercememory.NewStore(), Close: func() {}}
	services := BuildServices(store.UnitOfWork, nil)
	dialed := false

	closeTemporal := UseTemporalWorkflows(&services, store, func() (client.Client, error) {
		dialed = true
		return &mocks.Client{}, nil
	}, effectiveLogger(nil))
	closeTemporal()

	assert.False(t, dialed)
	assert.IsType(t, &commerceworkflows.InlineOrderWorkflows{}, services.Workflows)
}

func TestUseTemporalWorkflows_SwitchesForSharedStore(t *testing.T) {
	store := Store{UnitOfWork: commercememory.NewStore(), Shared: true, Close: func() {}}
	services := BuildServices(store.UnitOfWork, nil)
	temporalClient := &mocks.Client{}
	temporalClient.On("Close").Return().Once()

	closeTemporal := UseTemporalWorkflows(&services, store, func() (client.Client, error) {
		return temporalClient, nil
	}, effectiveLogger(nil))
	assert.IsType(t, &commerceworkflows.TemporalOrderWorkflows{}, services.Workflows)
	assert.NoError(t, requireSharedStore(store))

	closeTemporal()
	temporalClient.AssertExpectations(t)
}

func TestUseTemporalWorkflows_DialFailureStaysInline(t *testing.T) {
	store := Store{UnitOfWork: commercememory.NewStore(), Shared: true, Close: func() {}}
	services := BuildServices(store.UnitOfWork, nil)

	closeTemporal := UseTemporalWorkflows(&services, store, func() (client.Client, error) {
		return nil, errors.New("connection refused")
	}, effectiveLogger(nil))
	closeTemporal()

	assert.IsType(t, &commerceworkflows.InlineOrderWorkflows{}, services.Workflows)
}

func TestDialTemporal_Disabled(t *testing.T) {
	_, err := DialTemporal(Config{TemporalDisabled: true}, nil)
	assert.Error(t, err)
}
