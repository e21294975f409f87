package models

import (
	id "pns/pkg/domain"
)

// PaymentKind says what a pending payment pays for.
type PaymentKind string

const (
	PaymentKindMint  PaymentKind = "mint"
	PaymentKindRenew PaymentKind = "renew"
)

// IsValid checks if the kind is one of the supported values.
func (k PaymentKind) IsValid() bool {
	return k == PaymentKindMint || k == PaymentKindRenew
}

// PendingPayment is a fee transfer requested from the payment rail and not
// yet confirmed. Nothing it pays for is written until confirmation.
type PendingPayment struct {
	ID        string      `json:"id"`
	Kind      PaymentKind `json:"kind"`
	Caller    id.Address  `json:"caller"`
	Name      string      `json:"name"`
	Parent    string      `json:"parent,omitempty"`
	Years     uint32      `json:"years"`
	Fee       uint64      `json:"fee"`
	Token     id.Address  `json:"token"`
	Receiver  id.Address  `json:"receiver"`
	CreatedAt int64       `json:"created_at"`
}

// PaymentStatus is the outcome of a confirmation.
type PaymentStatus string

const (
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)
