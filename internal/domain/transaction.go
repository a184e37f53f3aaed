package domain

import "time"

// CardSnapshot is a copy of a card's values at the time a transaction was recorded.
// It is a weak reference: the card itself may change afterwards.
type CardSnapshot struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// Transaction is an immutable ledger entry recording a balance delta.
// Transactions are derived by the card store on update and never authored directly.
type Transaction struct {
	ID        int64        `json:"id"`
	Card      CardSnapshot `json:"card"`
	Amount    int64        `json:"amount"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewTransaction builds the ledger entry for a card whose balance moved from
// oldBalance to the card's current balance. The entry is recorded even when the
// amount is zero.
func NewTransaction(card *Card, oldBalance int64, at time.Time) *Transaction {
	return &Transaction{
		Card:      card.Snapshot(),
		Amount:    card.Balance - oldBalance,
		Timestamp: at.UTC(),
	}
}
