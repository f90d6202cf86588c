package models

import "time"

// Whale transfer direction classifications.
const (
	DirectionInflow   = "inflow"
	DirectionOutflow  = "outflow"
	DirectionTransfer = "transfer"
)

// WhaleTransaction is a large on-chain transfer event. Amounts are decimal
// strings; address and exchange-label fields are nil when unknown. Immutable
// once created.
type WhaleTransaction struct {
	ID          string    `json:"id"`
	Symbol      string    `json:"symbol"`
	TxHash      string    `json:"txHash"`
	Amount      string    `json:"amount"`
	AmountUSD   *string   `json:"amountUsd,omitempty"`
	Direction   string    `json:"direction"`
	FromAddress *string   `json:"fromAddress,omitempty"`
	ToAddress   *string   `json:"toAddress,omitempty"`
	FromLabel   *string   `json:"fromLabel,omitempty"`
	ToLabel     *string   `json:"toLabel,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
