package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/transit-api/internal/api/shared"
	"github.com/phrazzld/transit-api/internal/platform/logger"
	"github.com/phrazzld/transit-api/internal/service"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cards  service.CardService
	logger *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cards service.CardService, logger *slog.Logger) *CardHandler {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards cannot be nil for CardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		cards:  cards,
		logger: logger.With(slog.String("component", "card_handler")),
	}
}

// Routes registers the card endpoints on r.
func (h *CardHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateCard)
	r.Get("/{id}", h.GetCard)
	r.Put("/{id}", h.UpdateCard)
	r.Get("/{id}/transactions", h.ListTransactions)
}

// CreateCard handles POST /api/cards
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cards.Add(r.Context(), service.AddCardInput{Name: req.Name, Balance: req.Balance})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /api/cards/{id}
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	card, err := h.cards.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// UpdateCard handles PUT /api/cards/{id}
// The response includes the ledger entry the update produced.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateCardRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.cards.Update(r.Context(), id, service.UpdateCardInput{Name: req.Name, Balance: req.Balance})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update card")
		return
	}

	log.Debug("card updated via API",
		slog.Int64("card_id", id),
		slog.Int64("transaction_id", result.Transaction.ID))
	shared.RespondWithJSON(w, r, http.StatusOK, CardUpdateResponse{
		Card:        cardToResponse(result.Card),
		Transaction: transactionToResponse(result.Transaction),
	})
}

// ListTransactions handles GET /api/cards/{id}/transactions
func (h *CardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	txns, err := h.cards.FindTransactions(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list transactions")
		return
	}

	response := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		response = append(response, transactionToResponse(txn))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
