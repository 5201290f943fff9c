package enums

import "fmt"

// DeliveryStatus tracks one farmer contribution's trip to the customer.
// The wire tolerates both "in_progress" and "in_transit" as labels of the
// same logical state; internally only in_transit is stored.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusAssigned  DeliveryStatus = "assigned"
	DeliveryStatusPickedUp  DeliveryStatus = "picked_up"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCompleted DeliveryStatus = "completed"
)

// deliveryStatusInProgressLabel is the legacy wire alias for in_transit.
const deliveryStatusInProgressLabel = "in_progress"

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusAssigned,
	DeliveryStatusPickedUp,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
	DeliveryStatusCompleted,
}

var deliveryStatusRank = map[DeliveryStatus]int{
	DeliveryStatusPending:   0,
	DeliveryStatusAssigned:  1,
	DeliveryStatusPickedUp:  2,
	DeliveryStatusInTransit: 3,
	DeliveryStatusDelivered: 4,
	DeliveryStatusCompleted: 5,
}

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus, folding the
// in_progress alias into in_transit.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	if value == deliveryStatusInProgressLabel {
		return DeliveryStatusInTransit, nil
	}
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}

// CanAdvanceTo reports whether the delivery may move to next. Transitions
// are forward-only and may not skip states.
func (d DeliveryStatus) CanAdvanceTo(next DeliveryStatus) bool {
	from, ok := deliveryStatusRank[d]
	if !ok {
		return false
	}
	to, ok := deliveryStatusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// AtLeast reports whether the delivery has progressed as far as other.
func (d DeliveryStatus) AtLeast(other DeliveryStatus) bool {
	from, ok := deliveryStatusRank[d]
	if !ok {
		return false
	}
	to, ok := deliveryStatusRank[other]
	if !ok {
		return false
	}
	return from >= to
}

// ReachedCustomer reports whether the goods have arrived.
func (d DeliveryStatus) ReachedCustomer() bool {
	return d == DeliveryStatusDelivered || d == DeliveryStatusCompleted
}
