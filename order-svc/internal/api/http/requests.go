package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"restaurant-orders/order-svc/internal/domain"
)

// membershipMenuItemID is the wire id clients send for a VIP membership line.
const membershipMenuItemID = -999

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
	})
	return validate
}

type placeOrderRequest struct {
	RestaurantID    int64             `json:"restaurantId" validate:"required,gt=0"`
	TableID         *int64            `json:"tableId" validate:"omitempty,gt=0"`
	CustomerID      *int64            `json:"customerId" validate:"omitempty,gt=0"`
	DeliveryAddress *string           `json:"deliveryAddress" validate:"omitempty,max=500"`
	PhoneNumber     *string           `json:"phoneNumber" validate:"omitempty,max=32"`
	Items           []lineItemRequest `json:"items"`
}

type lineItemRequest struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
	Membership bool  `json:"membership,omitempty"`
}

func (req placeOrderRequest) toDomain(idempotencyKey string) domain.PlaceOrderRequest {
	items := make([]domain.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Membership || item.MenuItemID == membershipMenuItemID {
			items = append(items, domain.MembershipPurchase(item.Quantity))
			continue
		}
		items = append(items, domain.CatalogItem(item.MenuItemID, item.Quantity))
	}
	return domain.PlaceOrderRequest{
		RestaurantID:    req.RestaurantID,
		TableID:         req.TableID,
		CustomerID:      req.CustomerID,
		DeliveryAddress: req.DeliveryAddress,
		PhoneNumber:     req.PhoneNumber,
		Items:           items,
		IdempotencyKey:  idempotencyKey,
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// decodeRequest reads a JSON body into dst and validates it. Every failure
// unwraps to domain.ErrValidation.
func decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
	}
	if err := validatorInstance().Struct(dst); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fe.Field()+" is required")
		case "gt":
			messages = append(messages, fe.Field()+" must be greater than "+fe.Param())
		case "max":
			messages = append(messages, fe.Field()+" must be at most "+fe.Param()+" characters")
		default:
			messages = append(messages, fe.Field()+" is invalid")
		}
	}
	return strings.Join(messages, "; ")
}

func pathID(r *http.Request, name string) (int64, error) {
	return parseID(name, mux.Vars(r)[name])
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", domain.ErrValidation, name, raw)
	}
	return id, nil
}

// restaurantParam reads ?restaurantId=, falling back to the restaurant the
// caller is bound to.
func restaurantParam(r *http.Request, scope domain.CallerScope) (int64, error) {
	raw := r.URL.Query().Get("restaurantId")
	if raw == "" {
		if scope.RestaurantID != nil {
			return *scope.RestaurantID, nil
		}
		return 0, fmt.Errorf("%w: restaurantId is required", domain.ErrValidation)
	}
	return parseID("restaurantId", raw)
}
