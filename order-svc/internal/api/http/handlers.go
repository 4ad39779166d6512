package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"restaurant-orders/order-svc/internal/domain"
	"restaurant-orders/order-svc/internal/eventbus"
	"restaurant-orders/order-svc/internal/service"
)

// EventSource hands out per-restaurant event subscriptions.
type EventSource interface {
	Subscribe(restaurantID int64) *eventbus.Subscription
}

type Handler struct {
	Orders  service.OrderServiceInterface
	Billing service.BillingServiceInterface
	Events  EventSource

	// Auth is optional; nil leaves every route unrestricted.
	Auth           *Authenticator
	AllowedOrigins []string
	KeepAlive      time.Duration
	ServiceName    string
}

func NewHandler(orders service.OrderServiceInterface, billing service.BillingServiceInterface, events EventSource) *Handler {
	return &Handler{
		Orders:      orders,
		Billing:     billing,
		Events:      events,
		KeepAlive:   defaultKeepAlive,
		ServiceName: "order-svc",
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/orders", h.placeOrder).Methods("POST")
	api.HandleFunc("/orders", h.withScope(h.listOrders)).Methods("GET")
	api.HandleFunc("/orders/stream", h.withScope(h.streamOrders)).Methods("GET")
	api.HandleFunc("/orders/ws", h.withScope(h.streamOrdersWS)).Methods("GET")
	api.HandleFunc("/orders/{id}/status", h.withScope(h.updateStatus)).Methods("PUT")

	api.HandleFunc("/tables", h.withScope(h.listTables)).Methods("GET")
	api.HandleFunc("/tables/{tableId}/bill", h.withScope(h.getBill)).Methods("GET")
	api.HandleFunc("/tables/{tableId}/bill/summary", h.withScope(h.getBillSummary)).Methods("GET")
	api.HandleFunc("/tables/{tableId}/checkout", h.withScope(h.checkout)).Methods("POST")
	api.HandleFunc("/tables/{tableId}/qrcode", h.withScope(h.getTableQRCode)).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   h.ServiceName,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// placeOrder is reachable without a token: customers order from the table link.
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.Orders.PlaceOrder(r.Context(), req.toDomain(r.Header.Get("Idempotency-Key")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateStatusRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.Orders.UpdateStatus(r.Context(), orderID, req.Status, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	restaurantID, err := restaurantParam(r, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	statuses, err := domain.ParseStatuses(r.URL.Query()["statuses"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	orders, err := h.Orders.ListOrders(r.Context(), restaurantID, statuses, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) listTables(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	restaurantID, err := restaurantParam(r, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tables, err := h.Billing.ListTables(r.Context(), restaurantID, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	tableID, err := pathID(r, "tableId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bill, err := h.Billing.GetBill(r.Context(), tableID, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (h *Handler) getBillSummary(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	tableID, err := pathID(r, "tableId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	summary, err := h.Billing.Summary(r.Context(), tableID, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	tableID, err := pathID(r, "tableId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Billing.Checkout(r.Context(), tableID, scope); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getTableQRCode(w http.ResponseWriter, r *http.Request, scope domain.CallerScope) {
	tableID, err := pathID(r, "tableId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	png, err := h.Billing.TableQRCode(r.Context(), tableID, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
