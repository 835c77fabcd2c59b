package models

import "time"

// PaymentStatusSuccess is the only status written by the callback path;
// failed verifications never produce a row.
const PaymentStatusSuccess = "success"

// Payment records a completed gateway transaction and the plan upgrade it
// authorized. Rows are appended only after signature verification.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PaymentID string    `gorm:"not null" json:"payment_id"`
	OrderID   string    `gorm:"index" json:"order_id"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Currency  string    `gorm:"not null;default:INR" json:"currency"`
	Status    string    `gorm:"not null" json:"status"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
