package handler

import (
	"strings"

	"pns/internal/names/fee"
	id "pns/pkg/domain"
	dErrors "pns/pkg/domain-errors"
)

// MintRequest is the body of POST /domains.
type MintRequest struct {
	Name   string `json:"name"`
	Parent string `json:"parent,omitempty"`
	Years  uint32 `json:"years"`
}

func (r *MintRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Parent = strings.TrimSpace(r.Parent)
}

func (r *MintRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// RenewRequest is the body of POST /domains/{name}/renew.
type RenewRequest struct {
	Years uint32 `json:"years"`
}

// TransferRequest is the body of POST /domains/{name}/transfer.
type TransferRequest struct {
	NewOwner string `json:"new_owner"`

	parsedNewOwner id.Address
}

func (r *TransferRequest) Validate() error {
	addr, err := id.ParseAddress(r.NewOwner)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "new_owner must be a valid address")
	}
	r.parsedNewOwner = addr
	return nil
}

// SetRecordRequest is the body of PUT /domains/{name}/records/{class}. Data
// is base64 in JSON.
type SetRecordRequest struct {
	Data []byte `json:"data"`
}

func (r *SetRecordRequest) Validate() error {
	if r.Data == nil {
		return dErrors.New(dErrors.CodeValidation, "data is required")
	}
	return nil
}

// ConfirmPaymentRequest is the body of POST /payments/{id}/confirm.
type ConfirmPaymentRequest struct {
	Success *bool `json:"success"`
}

func (r *ConfirmPaymentRequest) Validate() error {
	if r.Success == nil {
		return dErrors.New(dErrors.CodeValidation, "success is required")
	}
	return nil
}

// PaymentInfoRequest is the body of PUT /admin/payment-info.
type PaymentInfoRequest struct {
	Token    string `json:"token"`
	Receiver string `json:"receiver"`

	parsedToken    id.Address
	parsedReceiver id.Address
}

func (r *PaymentInfoRequest) Validate() error {
	token, err := id.ParseAddress(r.Token)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "token must be a valid address")
	}
	receiver, err := id.ParseAddress(r.Receiver)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "receiver must be a valid address")
	}
	r.parsedToken, r.parsedReceiver = token, receiver
	return nil
}

// FeeTiersRequest is the body of PUT /admin/fee-tiers: five per-year fees
// for names of length 1, 2, 3, 4 and 5+.
type FeeTiersRequest struct {
	Tiers []uint64 `json:"tiers"`
}

func (r *FeeTiersRequest) Validate() error {
	if len(r.Tiers) != len(fee.Tiers{}) {
		return dErrors.Newf(dErrors.CodeValidation, "exactly %d fee tiers are required", len(fee.Tiers{}))
	}
	return nil
}

// ParsedTiers returns the validated tiers.
func (r *FeeTiersRequest) ParsedTiers() fee.Tiers {
	var t fee.Tiers
	copy(t[:], r.Tiers)
	return t
}

// ToggleRequest is the body of PUT /admin/paused and /admin/whitelist-phase.
type ToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

func (r *ToggleRequest) Validate() error {
	if r.Enabled == nil {
		return dErrors.New(dErrors.CodeValidation, "enabled is required")
	}
	return nil
}

// WhitelistRequest is the body of POST /admin/whitelist.
type WhitelistRequest struct {
	Addresses []string `json:"addresses"`
}

func (r *WhitelistRequest) Validate() error {
	if len(r.Addresses) == 0 {
		return dErrors.New(dErrors.CodeValidation, "addresses is required")
	}
	return nil
}

// AirdropRequest is the body of POST /admin/airdrops.
type AirdropRequest struct {
	Address string `json:"address"`

	parsedAddress id.Address
}

func (r *AirdropRequest) Validate() error {
	addr, err := id.ParseAddress(r.Address)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "address must be a valid address")
	}
	r.parsedAddress = addr
	return nil
}
