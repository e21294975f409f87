package handler

import (
	"math/big"

	"github.com/shopspring/decimal"

	"pns/internal/names/models"
	id "pns/pkg/domain"
)

// DomainResponse describes a domain and its status at request time.
type DomainResponse struct {
	Name      string `json:"name"`
	Owner     string `json:"owner"`
	Parent    string `json:"parent,omitempty"`
	MintedAt  int64  `json:"minted_at"`
	ExpiresAt int64  `json:"expires_at"`
	Status    string `json:"status,omitempty"`
}

// PaymentResponse describes a fee transfer awaiting confirmation.
type PaymentResponse struct {
	ID          string `json:"payment_id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Years       uint32 `json:"years"`
	Fee         uint64 `json:"fee"`
	TokenAmount string `json:"token_amount"`
	Token       string `json:"token"`
	Receiver    string `json:"receiver"`
}

// QuoteResponse is the body of GET /fees/quote.
type QuoteResponse struct {
	Name        string `json:"name"`
	Years       uint32 `json:"years"`
	Fee         uint64 `json:"fee"`
	TokenAmount string `json:"token_amount"`
}

// ConfirmPaymentResponse is the body of POST /payments/{id}/confirm.
type ConfirmPaymentResponse struct {
	PaymentID string          `json:"payment_id"`
	Status    string          `json:"status"`
	Domain    *DomainResponse `json:"domain,omitempty"`
}

// RecordResponse is the body of GET /domains/{name}/records/{class}.
type RecordResponse struct {
	Class string `json:"class"`
	Data  []byte `json:"data"`
}

// MintCountResponse is the body of GET /accounts/{address}/mint-count.
type MintCountResponse struct {
	Address   string `json:"address"`
	MintCount uint32 `json:"mint_count"`
}

// WhitelistResponse lists the addresses admitted by POST /admin/whitelist.
type WhitelistResponse struct {
	Added []string `json:"added"`
}

func toDomainResponse(d *models.Domain, status models.Status) *DomainResponse {
	return &DomainResponse{
		Name:      d.Name,
		Owner:     d.Owner.String(),
		Parent:    d.Parent,
		MintedAt:  d.MintedAt,
		ExpiresAt: d.ExpiresAt,
		Status:    string(status),
	}
}

func toPaymentResponse(p *models.PendingPayment, decimals int32) *PaymentResponse {
	return &PaymentResponse{
		ID:          p.ID,
		Kind:        string(p.Kind),
		Name:        p.Name,
		Years:       p.Years,
		Fee:         p.Fee,
		TokenAmount: tokenAmount(p.Fee, decimals),
		Token:       p.Token.String(),
		Receiver:    p.Receiver.String(),
	}
}

func toWhitelistResponse(addrs []id.Address) *WhitelistResponse {
	out := make([]string, len(addrs))
	for i, a := range addrs {
		out[i] = a.String()
	}
	return &WhitelistResponse{Added: out}
}

// tokenAmount renders a fee in base units as a whole-token decimal string.
func tokenAmount(fee uint64, decimals int32) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(fee), -decimals).String()
}
