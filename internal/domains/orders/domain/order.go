package domain

import "errors"

var ErrInvalidOrderID = errors.New("order id must be greater than zero")

// Order is a purchase request referencing the products to fulfil.
// Products is a snapshot taken when the order was loaded; processing mutates
// the stored product rows, never this list.
type Order struct {
	ID       int64     `json:"id"`
	Products []Product `json:"products"`
}

// Clone returns a deep copy of the order and its product snapshot.
func (o Order) Clone() Order {
	products := make([]Product, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, p.Clone())
	}
	o.Products = products
	return o
}

// ProductIDs lists the identifiers of the associated products.
func (o Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Products))
	for _, p := range o.Products {
		ids = append(ids, p.ID)
	}
	return ids
}
