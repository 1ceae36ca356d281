package models

// DeliveryStatus tracks where an order is.
type DeliveryStatus string

const (
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryShipped    DeliveryStatus = "shipped"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryCancelled  DeliveryStatus = "cancelled"
)

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryProcessing, DeliveryShipped, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

// Active reports whether the order is still on its way.
func (s DeliveryStatus) Active() bool {
	return s == DeliveryProcessing || s == DeliveryShipped
}

// ClaimStatus is shared by the return and refund workflows.
type ClaimStatus string

const (
	ClaimNone       ClaimStatus = "none"
	ClaimRequested  ClaimStatus = "requested"
	ClaimInProgress ClaimStatus = "in_progress"
	ClaimCompleted  ClaimStatus = "completed"
)

// Valid reports whether s is a known claim status.
func (s ClaimStatus) Valid() bool {
	switch s {
	case ClaimNone, ClaimRequested, ClaimInProgress, ClaimCompleted:
		return true
	}
	return false
}

// Order represents a purchase order placed with a vendor.
type Order struct {
	// ID is the unique identifier for the order record (UUID format).
	ID string

	// UserID is the owner of this order.
	UserID string

	// OrderID is the vendor's order reference.
	OrderID string

	Vendor string
	Amount float64

	// Date is the Unix timestamp when the order was placed.
	Date int64

	DeliveryStatus DeliveryStatus
	ReturnStatus   ClaimStatus
	RefundStatus   ClaimStatus
	Notes          string

	CreatedAt int64
	UpdatedAt int64
}
