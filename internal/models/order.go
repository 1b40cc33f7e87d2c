package models

type OrderItem struct {
	ISBN       string  `json:"isbn"`
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

// Order is immutable once created. PaymentLast4 is the only card data the
// API ever returns; truncation happens server-side.
type Order struct {
	OrderID      int64       `json:"order_id"`
	OrderDate    string      `json:"order_date"`
	Items        []OrderItem `json:"items"`
	TotalPrice   float64     `json:"total_price"`
	PaymentLast4 string      `json:"payment_last4,omitempty"`
	Status       string      `json:"status,omitempty"`
}

type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// PlaceOrderRequest is the wire form of a checkout submission. The card
// number is sent with whitespace already stripped.
type PlaceOrderRequest struct {
	CreditCardNo string `json:"credit_card_no"`
	ExpiryDate   string `json:"expiry_date"`
}
