package model

import "time"

// Account represents an identity that can hold tokens and funds. The
// marketplace itself is an account (RoleMarket): it holds custody of listed
// tokens and the retained deployment fee.
type Account struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Balance      int64      `json:"balance"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles.
const (
	RoleOperator = "operator"
	RoleTrader   = "trader"
	RoleMarket   = "market"
)

// MarketUsername is the reserved username of the custodian account, created
// at database init. It never authenticates.
const MarketUsername = "market"

// RoleAtLeast checks if role meets or exceeds the minimum required role.
// RoleMarket is not part of the ordering and always fails.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleOperator: 2,
		RoleTrader:   1,
	}
	return levels[role] >= levels[minimum] && levels[minimum] > 0
}
