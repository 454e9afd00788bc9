package models

import "time"

// CreditsPerPurchase is the fixed credit grant per verified transaction.
const CreditsPerPurchase = 100

// PlatformRazorpay identifies the payment gateway on payment records.
const PlatformRazorpay = "razorpay"

// Payment is an append-only evidence record for a verified gateway
// transaction. It is created exactly once per verified callback and never
// updated; the user's TotalAiCredits remains the source of truth for the
// current balance.
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PaymentID   string    `gorm:"not null;uniqueIndex" json:"payment_id"`
	NoOfCredits int       `gorm:"not null" json:"no_of_credits"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	UserEmail   string    `gorm:"not null" json:"user_email"`
	Platform    string    `gorm:"not null" json:"platform"`
	CreatedAt   time.Time `json:"created_at"`
}
