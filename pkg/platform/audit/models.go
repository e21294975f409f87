package audit

import (
	"time"
)

// EventCategory classifies audit events by retention needs.
type EventCategory string

const (
	// CategoryOwnership covers changes to who holds a name. These are the
	// events a dispute needs and are retained longest.
	CategoryOwnership EventCategory = "ownership"

	// CategoryOperations covers record changes, payments and admin actions.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from registry logic to capture key actions. It stays
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        string        `json:"id"`
	Category  EventCategory `json:"category"`
	Timestamp time.Time     `json:"timestamp"`
	// Action is one of the AuditEvent values.
	Action string `json:"action"`
	// Actor is the address that performed the action.
	Actor string `json:"actor,omitempty"`
	// Subject is the domain name or settings key acted upon.
	Subject   string `json:"subject"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type AuditEvent string

const (
	EventDomainMinted      AuditEvent = "domain_minted"
	EventDomainReclaimed   AuditEvent = "domain_reclaimed"
	EventDomainRenewed     AuditEvent = "domain_renewed"
	EventDomainTransferred AuditEvent = "domain_transferred"

	EventRecordSet     AuditEvent = "record_set"
	EventRecordDeleted AuditEvent = "record_deleted"

	EventPaymentRequested AuditEvent = "payment_requested"
	EventPaymentFailed    AuditEvent = "payment_failed"
	EventPaidMintRejected AuditEvent = "paid_mint_rejected"

	EventSettingsUpdated  AuditEvent = "settings_updated"
	EventWhitelistUpdated AuditEvent = "whitelist_updated"
	EventAirdropGranted   AuditEvent = "airdrop_granted"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDomainMinted:      CategoryOwnership,
	EventDomainReclaimed:   CategoryOwnership,
	EventDomainRenewed:     CategoryOwnership,
	EventDomainTransferred: CategoryOwnership,
	EventPaidMintRejected:  CategoryOwnership,
}

// Category returns the category of the event; unknown events are
// operational.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}
