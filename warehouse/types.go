// Package warehouse holds destination-side DTOs used by the loader tests and
// the sample manifest in testdata.
package warehouse

import (
	"time"
)

// CustomerDTO mirrors store.Customer with stricter slots.
type CustomerDTO struct {
	ID       int64
	Email    string
	FullName string
	Address  AddressDTO
	Phone    string
}

// AddressDTO mirrors store.Address.
type AddressDTO struct {
	Street string
	City   string
}

// OrderDTO mirrors store.Order.
type OrderDTO struct {
	ID        int64
	Customer  CustomerDTO
	Status    int
	Items     []OrderItemDTO
	Tags      map[string]struct{}
	OrderedAt time.Time
	UpdatedBy string
}

// OrderItemDTO mirrors store.OrderItem.
type OrderItemDTO struct {
	SKU       string
	Quantity  int64
	UnitPrice float32
}

// CategoryDTO mirrors store.Category.
type CategoryDTO struct {
	Name   string
	Parent *CategoryDTO
}
