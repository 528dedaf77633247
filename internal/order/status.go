// AngelaMos | 2026
// status.go

package order

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// progression ranks each fulfilment step; an order may only move to a higher
// rank. Cancelled has no rank because it is reachable from any open step.
var progression = map[Status]int{
	StatusPending:    0,
	StatusConfirmed:  1,
	StatusProcessing: 2,
	StatusShipped:    3,
	StatusDelivered:  4,
}

var labels = map[Status]string{
	StatusPending:    "Pending",
	StatusConfirmed:  "Confirmed",
	StatusProcessing: "Processing",
	StatusShipped:    "Shipped",
	StatusDelivered:  "Delivered",
	StatusCancelled:  "Cancelled",
}

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	_, ok := labels[st]
	return st, ok
}

func (s Status) Label() string {
	return labels[s]
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition allows forward moves along the fulfilment order, skipping
// steps if needed, and cancellation from any non-terminal status.
func CanTransition(from, to Status) bool {
	if from.Terminal() || from == to {
		return false
	}

	if to == StatusCancelled {
		return true
	}

	fromRank, okFrom := progression[from]
	toRank, okTo := progression[to]
	return okFrom && okTo && toRank > fromRank
}
