package entity

import "time"

// DeliveryData is an optional one-to-one aggregate holding a user's shipping
// destination. It shares storage cascade semantics with Verification but is
// not required for registration or login.
type DeliveryData struct {
	ID               int64
	UserID           int64
	RecipientName    string
	PhoneNumber      string
	ZipCode          string
	Address          string
	DetailAddress    *string
	EntrancePassword *string
	ShippingMemo     *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
