package domain

// Table is a physical table customers order from
type Table struct {
	ID   int64
	Name string
}

type Category struct {
	ID   int64
	Name string
}

// OptionSchema maps an option group to its ordered choices, e.g. {"Size": ["M", "L"]}.
// Selections are not validated against it when an order is placed.
type OptionSchema map[string][]string

func (s OptionSchema) Clone() OptionSchema {
	out := make(OptionSchema, len(s))
	for k, v := range s {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Product is a menu entry. Price is in the smallest currency unit.
type Product struct {
	ID          int64
	Name        string
	Price       int64
	CategoryID  int64
	Category    string
	ImageURL    string
	Options     OptionSchema
	IsAvailable bool
}
