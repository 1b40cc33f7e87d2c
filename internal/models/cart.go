package models

// CartItem is one line of the cart as returned by the bookstore API.
// TotalPrice is always server-computed; the storefront never trusts a
// locally derived line total past the next re-sync.
type CartItem struct {
	ISBN         string  `json:"isbn"`
	Title        string  `json:"title"`
	Authors      string  `json:"authors"`
	SellingPrice float64 `json:"selling_price"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"total_price"`
}

// Cart is a view onto server state. Item order is the server-returned
// order and is preserved as-is.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

type AddItemRequest struct {
	ISBN     string `json:"isbn" validate:"required"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateQuantityRequest struct {
	ISBN     string `json:"isbn" validate:"required"`
	Quantity int    `json:"quantity" validate:"required"`
}

type RemoveItemRequest struct {
	ISBN string `json:"isbn" validate:"required"`
}

type CartCountResponse struct {
	Count int `json:"count"`
}
