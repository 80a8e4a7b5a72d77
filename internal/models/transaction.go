package models

import (
	"time"
)

// TransactionRecord is the append-only audit trail. Rows are immutable once
// written except for the status transition of pending withdrawals. At least
// one of SenderID/ReceiverID is set; AmountMicro is signed (negative =
// funds leaving the receiver's ledger).
type TransactionRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    *uint     `gorm:"index" json:"sender_id"`
	ReceiverID  *uint     `gorm:"index" json:"receiver_id"`
	AmountMicro int64     `gorm:"not null" json:"amount_micro"`
	FeeMicro    int64     `gorm:"not null;default:0" json:"fee_micro"`
	Type        string    `gorm:"size:40;not null;index" json:"type"`
	Status      string    `gorm:"size:20;not null;index" json:"status"`
	Reference   string    `gorm:"size:128" json:"reference"` // e.g. withdrawal order id, position id
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (TransactionRecord) TableName() string { return "transaction_records" }
