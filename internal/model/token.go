package model

import "time"

// Token represents one catalog item. Tokens are created once, at catalog
// initialization, and never destroyed. A token is listed iff it has a seller;
// while listed, custody (OwnerID) belongs to the market account so a purchase
// can hand funds and ownership over in one step.
//
// Price is the current asking price and is only meaningful while the token is
// listed; readers zero it on unlisted tokens rather than surfacing the stale
// last ask.
type Token struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	SellerID  *int64    `json:"seller_id,omitempty"`
	Price     int64     `json:"price"`
	Listed    bool      `json:"listed"`
	URI       string    `json:"uri,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	OwnerName  string `json:"owner_name,omitempty"`
	SellerName string `json:"seller_name,omitempty"`
}
