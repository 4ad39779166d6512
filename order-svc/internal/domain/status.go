package domain

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPreparing OrderStatus = "PREPARING"
	StatusReady     OrderStatus = "READY"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusPaid      OrderStatus = "PAID"
	StatusCancelled OrderStatus = "CANCELLED"
)

// progression is the rank of each status along the normal workflow.
// CANCELLED sits outside it.
var progression = map[OrderStatus]int{
	StatusPending:   0,
	StatusPreparing: 1,
	StatusReady:     2,
	StatusCompleted: 3,
	StatusPaid:      4,
}

// ParseStatus accepts the wire spelling of a status, case-insensitively.
func ParseStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return status, nil
}

// ParseStatuses parses an inclusion filter. Empty input yields nil (no filter).
func ParseStatuses(raw []string) ([]OrderStatus, error) {
	var out []OrderStatus
	for _, chunk := range raw {
		for _, part := range strings.Split(chunk, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			status, err := ParseStatus(part)
			if err != nil {
				return nil, err
			}
			out = append(out, status)
		}
	}
	return out, nil
}

func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := progression[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

func (s OrderStatus) IsActive() bool {
	return s.Valid() && !s.IsTerminal()
}

// ActiveStatuses are the statuses that still belong on a table's bill.
func ActiveStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusCompleted}
}

// CanTransitionTo allows forward moves along the workflow (skipping ahead is fine),
// cancellation of any active order, and re-asserting the current status.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return progression[next] > progression[s]
}

func StatusStrings(statuses []OrderStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
