package model

import "time"

// Event is one entry of the append-only market event feed. Events are written
// in the same transaction as the mutation they record, so exactly one exists
// per successful purchase or relist and none for failed attempts.
type Event struct {
	ID        int64     `json:"id"`
	Ref       string    `json:"ref"`
	Type      string    `json:"type"`
	TokenID   int64     `json:"token_id"`
	SellerID  int64     `json:"seller_id"`
	BuyerID   *int64    `json:"buyer_id,omitempty"`
	Price     int64     `json:"price"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	SellerName string `json:"seller_name,omitempty"`
	BuyerName  string `json:"buyer_name,omitempty"`
}

// Event types.
const (
	EventBought   = "bought"
	EventRelisted = "relisted"
)
