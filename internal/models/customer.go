package models

import "time"

// Customer represents a storefront customer. Accounts are created
// server-side on the first verified OTP login, never by the client.
type Customer struct {
	BaseModel
	Phone       string  `gorm:"uniqueIndex" json:"phone"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	TotalOrders int     `json:"total_orders"`
	TotalSpent  int64   `json:"total_spent"`
	Orders      []Order `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
}

// OTPChallenge tracks one-time login codes sent to a phone number.
// At most one unexpired challenge is live per phone at any time.
type OTPChallenge struct {
	BaseModel
	Phone     string     `gorm:"index" json:"phone"`
	Code      string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
	Attempts  int        `json:"attempts"`
}
