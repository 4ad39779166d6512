package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"restaurant-orders/order-svc/internal/domain"
)

// Claims carry the caller scope issued by the authentication service.
type Claims struct {
	RestaurantID *int64 `json:"restaurantId,omitempty"`
	Role         string `json:"role"`
	CustomerID   *int64 `json:"customerId,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 tokens and turns them into a caller scope.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

func (a *Authenticator) Issue(scope domain.CallerScope, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RestaurantID: scope.RestaurantID,
		Role:         scope.Role,
		CustomerID:   scope.CustomerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *Authenticator) Parse(token string) (domain.CallerScope, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return domain.CallerScope{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.CallerScope{}, ErrUnauthorized
	}
	return domain.CallerScope{
		RestaurantID: claims.RestaurantID,
		Role:         claims.Role,
		CustomerID:   claims.CustomerID,
	}, nil
}

// tokenFromRequest prefers the Authorization header. Browsers cannot set headers
// on EventSource or WebSocket requests, so ?token= is accepted too.
func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return r.URL.Query().Get("token")
}

type scopedHandler func(w http.ResponseWriter, r *http.Request, scope domain.CallerScope)

// withScope resolves the caller scope before calling next. Without an
// authenticator every caller is unrestricted.
func (h *Handler) withScope(next scopedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.Auth == nil {
			next(w, r, domain.CallerScope{})
			return
		}
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, r, ErrUnauthorized)
			return
		}
		scope, err := h.Auth.Parse(token)
		if err != nil {
			writeError(w, r, err)
			return
		}
		next(w, r, scope)
	}
}
