// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"splitledger/internal/domain"
	"splitledger/internal/service"
	"splitledger/internal/util"
)

// LedgerHandler handles HTTP requests for transactions, settlements and
// balance sheets.
type LedgerHandler struct {
	service service.LedgerService
	logger  *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(svc service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{service: svc, logger: logger}
}

// ShareRequest is one participant's share in a transaction request.
type ShareRequest struct {
	UserID      int64  `json:"user_id"`
	ShareAmount string `json:"share_amount"`
}

// RecordTransactionRequest is the request body for recording a transaction.
// Amounts are exact decimal strings; the date is YYYY-MM-DD.
type RecordTransactionRequest struct {
	GroupID         int64          `json:"group_id"`
	PaidBy          int64          `json:"paid_by"`
	TotalAmount     string         `json:"total_amount"`
	Participants    []ShareRequest `json:"participants"`
	TransactionDate string         `json:"transaction_date"`
	Description     *string        `json:"description"`
}

// RecordTransaction handles POST /transactions.
func (h *LedgerHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	total, err := domain.ParsePositiveAmount(req.TotalAmount)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	date, err := domain.ParseDate(req.TransactionDate)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	shares := make([]domain.Share, 0, len(req.Participants))
	for _, p := range req.Participants {
		amount, err := domain.ParseAmount(p.ShareAmount)
		if err != nil {
			respondWithError(h.logger, w, util.ErrInvalidInput)
			return
		}
		shares = append(shares, domain.Share{UserID: p.UserID, ShareAmount: amount})
	}

	detail, err := h.service.RecordTransaction(r.Context(), service.RecordTransactionInput{
		GroupID:     req.GroupID,
		PaidBy:      req.PaidBy,
		TotalAmount: total,
		Shares:      shares,
		Date:        date,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, detail)
}

// EqualSplitRequest is the request body for an evenly split transaction.
type EqualSplitRequest struct {
	GroupID         int64   `json:"group_id"`
	PaidBy          int64   `json:"paid_by"`
	TotalAmount     string  `json:"total_amount"`
	ParticipantIDs  []int64 `json:"participant_ids"`
	TransactionDate string  `json:"transaction_date"`
	Description     *string `json:"description"`
}

// RecordEqualSplit handles POST /transactions/equal-split.
func (h *LedgerHandler) RecordEqualSplit(w http.ResponseWriter, r *http.Request) {
	var req EqualSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	total, err := domain.ParsePositiveAmount(req.TotalAmount)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}
	date, err := domain.ParseDate(req.TransactionDate)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	detail, err := h.service.RecordEqualSplit(r.Context(), service.EqualSplitInput{
		GroupID:        req.GroupID,
		PaidBy:         req.PaidBy,
		TotalAmount:    total,
		ParticipantIDs: req.ParticipantIDs,
		Date:           date,
		Description:    req.Description,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, detail)
}

// GetTransaction handles GET /transactions/{transactionID}.
func (h *LedgerHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "transactionID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	detail, err := h.service.GetTransaction(r.Context(), id)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, detail)
}

// ListGroupTransactions handles GET /groups/{groupID}/transactions.
func (h *LedgerHandler) ListGroupTransactions(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	summaries, err := h.service.ListGroupTransactions(r.Context(), groupID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, summaries)
}

// SettleRequest is the request body for settling a group's balances.
type SettleRequest struct {
	SettledBy   int64   `json:"settled_by"`
	Description *string `json:"description"`
}

// Settle handles POST /groups/{groupID}/settlements.
func (h *LedgerHandler) Settle(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	detail, err := h.service.Settle(r.Context(), groupID, req.SettledBy, req.Description)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, detail)
}

// ListGroupSettlements handles GET /groups/{groupID}/settlements.
func (h *LedgerHandler) ListGroupSettlements(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	settlements, err := h.service.ListGroupSettlements(r.Context(), groupID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, settlements)
}

// GetBalanceSheet handles GET /groups/{groupID}/balance-sheet.
func (h *LedgerHandler) GetBalanceSheet(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	sheet, err := h.service.GetBalanceSheet(r.Context(), groupID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, sheet)
}
