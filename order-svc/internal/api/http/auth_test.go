package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/order-svc/internal/domain"
)

func TestAuthenticator_RoundTrip(t *testing.T) {
	auth, err := NewAuthenticator("test-secret")
	require.NoError(t, err)

	restaurantID := int64(7)
	token, err := auth.Issue(domain.CallerScope{RestaurantID: &restaurantID, Role: "STAFF"}, time.Hour)
	require.NoError(t, err)

	scope, err := auth.Parse(token)
	require.NoError(t, err)
	require.NotNil(t, scope.RestaurantID)
	assert.Equal(t, int64(7), *scope.RestaurantID)
	assert.Equal(t, "STAFF", scope.Role)
	assert.Nil(t, scope.CustomerID)
}

func TestAuthenticator_Rejects(t *testing.T) {
	auth, err := NewAuthenticator("test-secret")
	require.NoError(t, err)
	other, err := NewAuthenticator("another-secret")
	require.NoError(t, err)

	foreign, err := other.Issue(domain.CallerScope{Role: "ADMIN"}, time.Hour)
	require.NoError(t, err)
	expired, err := auth.Issue(domain.CallerScope{Role: "ADMIN"}, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: foreign},
		{name: "expired", token: expired},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := auth.Parse(testCase.token)
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}

	_, err = NewAuthenticator("")
	assert.Error(t, err)
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		header string
		want   string
	}{
		{name: "bearer header", url: "/api/orders", header: "Bearer abc", want: "abc"},
		{name: "lowercase scheme", url: "/api/orders", header: "bearer abc", want: "abc"},
		{name: "query parameter", url: "/api/orders/stream?token=xyz", want: "xyz"},
		{name: "header wins", url: "/api/orders/stream?token=xyz", header: "Bearer abc", want: "abc"},
		{name: "basic auth ignored", url: "/api/orders", header: "Basic dXNlcg==", want: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, testCase.url, nil)
			if testCase.header != "" {
				r.Header.Set("Authorization", testCase.header)
			}
			assert.Equal(t, testCase.want, tokenFromRequest(r))
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: domain.ErrEmptyOrder, want: http.StatusBadRequest},
		{err: fmt.Errorf("%w: 42", domain.ErrInvalidLineItem), want: http.StatusBadRequest},
		{err: domain.ErrInvalidStatus, want: http.StatusBadRequest},
		{err: domain.ErrVipUnavailable, want: http.StatusBadRequest},
		{err: domain.ErrNoActiveOrders, want: http.StatusBadRequest},
		{err: domain.ErrOrderNotFound, want: http.StatusNotFound},
		{err: domain.ErrTableNotFound, want: http.StatusNotFound},
		{err: domain.ErrScopeMismatch, want: http.StatusForbidden},
		{err: domain.ErrInvalidTransition, want: http.StatusConflict},
		{err: domain.ErrStatusConflict, want: http.StatusConflict},
		{err: domain.ErrRequestInFlight, want: http.StatusConflict},
		{err: ErrUnauthorized, want: http.StatusUnauthorized},
		{err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, testCase := range tests {
		t.Run(testCase.err.Error(), func(t *testing.T) {
			assert.Equal(t, testCase.want, statusFor(testCase.err))
		})
	}
}

func TestPlaceOrderRequest_ToDomain(t *testing.T) {
	tableID := int64(4)
	req := placeOrderRequest{
		RestaurantID: 1,
		TableID:      &tableID,
		Items: []lineItemRequest{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: membershipMenuItemID, Quantity: 1},
			{Membership: true, Quantity: 1},
		},
	}

	got := req.toDomain("key-1")

	assert.Equal(t, "key-1", got.IdempotencyKey)
	assert.Equal(t, &tableID, got.TableID)
	assert.Equal(t, []domain.LineItem{
		domain.CatalogItem(1, 2),
		domain.MembershipPurchase(1),
		domain.MembershipPurchase(1),
	}, got.Items)
}
