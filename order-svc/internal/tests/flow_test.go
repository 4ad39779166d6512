package tests

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpapi "restaurant-orders/order-svc/internal/api/http"
	"restaurant-orders/order-svc/internal/domain"
	"restaurant-orders/order-svc/internal/eventbus"
	"restaurant-orders/order-svc/internal/mocks"
	"restaurant-orders/order-svc/internal/pricing"
	"restaurant-orders/order-svc/internal/service"
)

func nextEvent(t *testing.T, sub *eventbus.Subscription) domain.OrderEvent {
	t.Helper()
	select {
	case event := <-sub.Events():
		return event
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return domain.OrderEvent{}
	}
}

// TestTableOrderFlow walks one table from the first order to checkout through
// the HTTP surface, with the real services and bus behind it.
func TestTableOrderFlow(t *testing.T) {
	orders := mocks.NewOrderRepository(t)
	catalog := mocks.NewCatalogRepository(t)
	customers := mocks.NewCustomerRepository(t)
	vip := mocks.NewVipConfigRepository(t)
	tables := mocks.NewTableRepository(t)

	bus := eventbus.New(eventbus.DefaultBufferSize)
	defer bus.Close()
	dashboard := bus.Subscribe(1)
	otherTenant := bus.Subscribe(2)

	orderSvc := service.NewOrderService(orders, catalog, customers, vip, pricing.NewEngine(money("0.08")), bus)
	billingSvc := service.NewBillingService(orders, catalog, tables, bus, service.DefaultQRGenerator{BaseURL: "https://order.example.com"})
	router := httpapi.NewRouter(httpapi.NewHandler(orderSvc, billingSvc, bus), nil)

	var placed *domain.Order
	var placedItems []domain.OrderItem

	t.Run("PlaceOrder", func(t *testing.T) {
		vip.On("GetVipConfig", mock.Anything, int64(1)).Return(enabledVip, nil).Once()
		catalog.On("FindMenuItems", mock.Anything, []int64{1}).Return(burger(), nil).Once()
		orders.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order"), mock.AnythingOfType("[]domain.OrderItem")).
			Run(func(args mock.Arguments) {
				placed = args.Get(1).(*domain.Order)
				placed.ID = 101
				placedItems = args.Get(2).([]domain.OrderItem)
				for i := range placedItems {
					placedItems[i].OrderID = 101
				}
			}).
			Return(nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders",
			strings.NewReader(`{"restaurantId":1,"tableId":4,"items":[{"menuItemId":1,"quantity":2}]}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `{"id":101,"status":"PENDING","totalAmount":21.60}`, strings.TrimSpace(rec.Body.String()))
		assert.Equal(t, domain.OrderEvent{OrderID: 101, RestaurantID: 1, Status: domain.StatusPending, Type: domain.EventCreated}, nextEvent(t, dashboard))
	})

	t.Run("KitchenMarksReady", func(t *testing.T) {
		require.NotNil(t, placed)
		current := *placed
		ready := current
		ready.Status = domain.StatusReady

		orders.On("GetOrder", mock.Anything, int64(101)).Return(&current, nil).Once()
		orders.On("UpdateStatus", mock.Anything, domain.StatusChange{OrderID: 101, From: domain.StatusPending, To: domain.StatusReady}).
			Return(&ready, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/101/status", strings.NewReader(`{"status":"READY"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, domain.StatusReady, nextEvent(t, dashboard).Status)
		placed = &ready
	})

	t.Run("BillShowsTheOrder", func(t *testing.T) {
		tables.On("GetTable", mock.Anything, int64(4)).Return(table4, nil).Once()
		orders.On("ListByTable", mock.Anything, int64(4), domain.ActiveStatuses()).Return([]domain.Order{*placed}, nil).Once()
		orders.On("ListItems", mock.Anything, []int64{101}).Return(placedItems, nil).Once()
		catalog.On("FindMenuItems", mock.Anything, []int64{1}).Return(burger(), nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/4/bill", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `"menuItemName":"Burger"`)
		assert.Contains(t, body, `"quantity":2`)
		assert.Contains(t, body, `"totalAmount":21.60`)
	})

	t.Run("Checkout", func(t *testing.T) {
		paid := *placed
		paid.Status = domain.StatusPaid

		tables.On("GetTable", mock.Anything, int64(4)).Return(table4, nil).Once()
		orders.On("ListByTable", mock.Anything, int64(4), domain.ActiveStatuses()).Return([]domain.Order{*placed}, nil).Once()
		orders.On("BulkUpdateStatus", mock.Anything, []int64{101}, domain.StatusPaid, domain.ActiveStatuses()).
			Return([]domain.Order{paid}, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/tables/4/checkout", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, domain.OrderEvent{OrderID: 101, RestaurantID: 1, Status: domain.StatusPaid, Type: domain.EventUpdated}, nextEvent(t, dashboard))
	})

	t.Run("BillIsEmptyAfterCheckout", func(t *testing.T) {
		tables.On("GetTable", mock.Anything, int64(4)).Return(table4, nil).Once()
		orders.On("ListByTable", mock.Anything, int64(4), domain.ActiveStatuses()).Return([]domain.Order{}, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/4/bill", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("QRCodeLinksTheTable", func(t *testing.T) {
		tables.On("GetTable", mock.Anything, int64(4)).Return(table4, nil).Once()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tables/4/qrcode", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
	})

	assert.Empty(t, otherTenant.Events(), "events leaked across restaurants")
}
