package domain

import (
	"fmt"
	"math"
	"time"
)

// maxColumnValue is the largest table id, product id or quantity the schema can store (int4).
const maxColumnValue = math.MaxInt32

// SelectedOptions maps an option group (e.g. "Size") to the chosen value.
// It is copied into the order at creation time and never refers back to the catalog.
type SelectedOptions map[string]string

func (o SelectedOptions) Clone() SelectedOptions {
	out := make(SelectedOptions, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Order represents a table's order together with its line items
type Order struct {
	ID          int64
	TableID     int64
	TableName   string
	Status      Status
	TotalAmount int64
	Note        *string
	CreatedAt   time.Time
	Items       []OrderItem
}

// OrderItem represents one product line of an order
type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	Name            string
	Quantity        int
	SelectedOptions SelectedOptions
}

// NewOrder builds an order in the initial status and validates the caller input.
// totalAmount is trusted as given; it is not recomputed from catalog prices.
func NewOrder(tableID int64, items []OrderItem, totalAmount int64, note *string) (*Order, error) {
	order := &Order{
		TableID:     tableID,
		Status:      StatusNew,
		TotalAmount: totalAmount,
		Note:        note,
		Items:       make([]OrderItem, len(items)),
	}
	for i, item := range items {
		order.Items[i] = OrderItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Quantity:        item.Quantity,
			SelectedOptions: item.SelectedOptions.Clone(),
		}
	}

	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate applies the creation preconditions that do not need storage
func (o *Order) Validate() error {
	if o.TableID <= 0 {
		return NewValidationError("table_id", "table id is required")
	}
	if o.TableID > maxColumnValue {
		return NewValidationError("table_id", "table id is out of range")
	}
	if len(o.Items) == 0 {
		return NewValidationError("items", "order must contain at least 1 item")
	}
	if o.TotalAmount < 0 {
		return NewValidationError("total_amount", "total amount must not be negative")
	}
	for i, item := range o.Items {
		if item.ProductID <= 0 {
			return NewValidationError(fmt.Sprintf("items[%d].product_id", i), "product id is required")
		}
		if item.ProductID > maxColumnValue {
			return NewValidationError(fmt.Sprintf("items[%d].product_id", i), "product id is out of range")
		}
		if item.Quantity < 1 {
			return NewValidationError(fmt.Sprintf("items[%d].quantity", i), "item quantity must be at least 1")
		}
		if item.Quantity > maxColumnValue {
			return NewValidationError(fmt.Sprintf("items[%d].quantity", i), "item quantity is out of range")
		}
	}
	return nil
}

// Clone returns a deep copy so stored orders are never shared with callers.
func (o *Order) Clone() *Order {
	out := *o
	if o.Note != nil {
		note := *o.Note
		out.Note = &note
	}
	out.Items = make([]OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.SelectedOptions = item.SelectedOptions.Clone()
		out.Items[i] = item
	}
	return &out
}
