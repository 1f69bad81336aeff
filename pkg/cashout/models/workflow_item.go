package models

// ItemStatus is the availability of a dashboard workflow card.
type ItemStatus string

const (
	ItemActive   ItemStatus = "active"
	ItemInactive ItemStatus = "inactive"
	ItemPending  ItemStatus = "pending"
)

func (s ItemStatus) Label() string {
	switch s {
	case ItemActive:
		return "Active"
	case ItemInactive:
		return "Inactive"
	case ItemPending:
		return "Pending"
	default:
		return "Unknown"
	}
}

func (s ItemStatus) BadgeClass() string {
	switch s {
	case ItemActive:
		return "badge badge-active"
	case ItemPending:
		return "badge badge-pending"
	default:
		return "badge badge-inactive"
	}
}

// Category groups workflow cards into the api and ui tabs.
type Category string

const (
	CategoryAPI Category = "api"
	CategoryUI  Category = "ui"
)

func (c Category) Valid() bool {
	return c == CategoryAPI || c == CategoryUI
}
