package orderserver

// ProcessOrderResponse acknowledges a processed order.
type ProcessOrderResponse struct {
	OrderId int64 `json:"orderId"`
}
