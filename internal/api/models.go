package api

import (
	"time"

	"github.com/phrazzld/transit-api/internal/domain"
)

// CreateStationRequest defines the payload for POST /api/stations.
// Length bounds are enforced by the domain so the error names the allowed range.
type CreateStationRequest struct {
	Name string `json:"name" validate:"required"`
	Line string `json:"line" validate:"required"`
}

// UpdateStationRequest defines the payload for PUT /api/stations/{id}.
// Omitted fields keep their current value.
type UpdateStationRequest struct {
	Name *string `json:"name" validate:"required_without=Line"`
	Line *string `json:"line" validate:"required_without=Name"`
}

// StationResponse represents a station in API responses.
type StationResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Line      string `json:"line"`
	IsDeleted bool   `json:"is_deleted"`
}

// CreateCardRequest defines the payload for POST /api/cards.
type CreateCardRequest struct {
	Name    string `json:"name"    validate:"required"`
	Balance int64  `json:"balance"`
}

// UpdateCardRequest defines the payload for PUT /api/cards/{id}.
type UpdateCardRequest struct {
	Name    *string `json:"name"    validate:"required_without=Balance"`
	Balance *int64  `json:"balance" validate:"required_without=Name"`
}

// CardResponse represents a card in API responses.
type CardResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID          int64     `json:"id"`
	CardID      int64     `json:"card_id"`
	CardName    string    `json:"card_name"`
	CardBalance int64     `json:"card_balance"`
	Amount      int64     `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// CardUpdateResponse is returned by PUT /api/cards/{id}.
type CardUpdateResponse struct {
	Card        CardResponse        `json:"card"`
	Transaction TransactionResponse `json:"transaction"`
}

// BulkResponse reports how many rows a bulk operation changed.
type BulkResponse struct {
	Affected int64 `json:"affected"`
}

func stationToResponse(s *domain.Station) StationResponse {
	return StationResponse{
		ID:        s.ID,
		Name:      s.Name,
		Line:      s.Line,
		IsDeleted: s.IsDeleted,
	}
}

func cardToResponse(c *domain.Card) CardResponse {
	return CardResponse{
		ID:      c.ID,
		Name:    c.Name,
		Balance: c.Balance,
	}
}

func transactionToResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		CardID:      t.Card.ID,
		CardName:    t.Card.Name,
		CardBalance: t.Card.Balance,
		Amount:      t.Amount,
		Timestamp:   t.Timestamp,
	}
}
