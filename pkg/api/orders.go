package api

type Order struct {
	Id             string  `json:"id"`
	OrderId        string  `json:"orderId"`
	Vendor         string  `json:"vendor"`
	Amount         float64 `json:"amount"`
	Date           int64   `json:"date"`
	DeliveryStatus string  `json:"deliveryStatus"`
	ReturnStatus   string  `json:"returnStatus"`
	RefundStatus   string  `json:"refundStatus"`
	Notes          string  `json:"notes,omitempty"`
	CreatedAt      int64   `json:"createdAt"`
	UpdatedAt      int64   `json:"updatedAt"`
}

// OrderFields are the editable fields of an order. Empty statuses default to
// processing and none.
type OrderFields struct {
	OrderId        string  `json:"orderId"`
	Vendor         string  `json:"vendor"`
	Amount         float64 `json:"amount"`
	Date           int64   `json:"date,omitempty"`
	DeliveryStatus string  `json:"deliveryStatus,omitempty"`
	ReturnStatus   string  `json:"returnStatus,omitempty"`
	RefundStatus   string  `json:"refundStatus,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

type CreateOrderRequest struct {
	Order *OrderFields `json:"order"`
}

type CreateOrderResponse struct {
	Order *Order `json:"order"`
}

type GetOrderRequest struct {
	Id string `json:"id"`
}

type GetOrderResponse struct {
	Order *Order `json:"order"`
}

type ListOrdersRequest struct{}

type ListOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

type UpdateOrderRequest struct {
	Id    string       `json:"id"`
	Order *OrderFields `json:"order"`
}

type UpdateOrderResponse struct {
	Order *Order `json:"order"`
}

type DeleteOrderRequest struct {
	Id string `json:"id"`
}

type DeleteOrderResponse struct{}
