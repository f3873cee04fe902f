package domain

type Status string

const (
	StatusNew       Status = "new"
	StatusPreparing Status = "preparing"
	StatusServed    Status = "served"
	StatusPaid      Status = "paid"
)

// Rank returns the position of the status in the lifecycle, or -1 for unknown values.
func (s Status) Rank() int {
	switch s {
	case StatusNew:
		return 0
	case StatusPreparing:
		return 1
	case StatusServed:
		return 2
	case StatusPaid:
		return 3
	default:
		return -1
	}
}

func (s Status) IsValid() bool {
	return s.Rank() >= 0
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusPaid
}

// IsActive reports whether an order in this status belongs to the kitchen's working set.
func (s Status) IsActive() bool {
	return s.IsValid() && !s.IsTerminal()
}

func (s Status) String() string {
	return string(s)
}

// ActiveStatuses lists the statuses returned by active order queries, in lifecycle order.
func ActiveStatuses() []Status {
	return []Status{StatusNew, StatusPreparing, StatusServed}
}
