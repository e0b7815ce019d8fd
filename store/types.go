// Package store holds source-side records used by the loader tests and the
// sample manifest in testdata.
package store

import (
	"time"
)

// OrderStatus is a string enum.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Customer places orders. Address is optional.
type Customer struct {
	ID       string
	Email    string
	FullName *string
	Address  *Address
	IsActive bool
	password string
}

// Address is a postal address.
type Address struct {
	Street string
	City   string
}

// Order is a transaction made by a customer.
type Order struct {
	ID        int32
	Customer  Customer
	Status    OrderStatus
	Items     []OrderItem
	Tags      []string
	OrderedAt time.Time
	Audit
}

// OrderItem is a line within an order.
type OrderItem struct {
	SKU       string
	Quantity  int16
	UnitPrice int64
}

// Audit is embedded into records that track changes.
type Audit struct {
	UpdatedBy string
}

// Category is self-referential.
type Category struct {
	Name   string
	Parent *Category
}
