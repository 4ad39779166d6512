package domain

// CallerScope is the authenticated identity as handed over by the auth layer.
// A nil RestaurantID means the caller is not bound to a single restaurant.
type CallerScope struct {
	RestaurantID *int64
	Role         string
	CustomerID   *int64
}

func (s CallerScope) Allows(restaurantID int64) bool {
	return s.RestaurantID == nil || *s.RestaurantID == restaurantID
}

// Authorize returns ErrScopeMismatch when the caller is bound to another restaurant.
func (s CallerScope) Authorize(restaurantID int64) error {
	if !s.Allows(restaurantID) {
		return ErrScopeMismatch
	}
	return nil
}
