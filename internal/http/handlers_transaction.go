package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
)

// transactionList carries the filtered listing together with the totals of
// the filtered set, newest first.
type transactionList struct {
	Transactions  []core.Transaction `json:"transactions"`
	TotalIncome   core.Money         `json:"totalIncome"`
	TotalExpenses core.Money         `json:"totalExpenses"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request, userID string) {
	q := r.URL.Query()
	filter := core.TransactionFilter{
		Type:       core.TransactionType(strings.TrimSpace(q.Get("type"))),
		CategoryID: strings.TrimSpace(q.Get("category")),
		Search:     q.Get("q"),
	}
	if filter.Type != "" && filter.Type != core.Income && filter.Type != core.Expense {
		writeError(w, r, http.StatusBadRequest, "type must be income or expense")
		return
	}

	transactions, err := s.svc.Transactions(r.Context(), userID, filter)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := transactionList{Transactions: transactions}
	for _, t := range transactions {
		switch t.Type {
		case core.Income:
			resp.TotalIncome.Cents += t.Amount.Cents
		case core.Expense:
			resp.TotalExpenses.Cents += t.Amount.Cents
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	created, err := s.svc.CreateTransaction(r.Context(), userID, t)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "transaction", created.ID, applog.OpCreate)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	var t core.Transaction
	if err := decodeJSON(r, &t); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	t.ID = r.PathValue("id")
	updated, err := s.svc.UpdateTransaction(r.Context(), userID, t)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "transaction", updated.ID, applog.OpUpdate)
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request, userID string) {
	if err := s.svc.DeleteTransaction(r.Context(), userID, r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.completeMutation(r.Context(), userID, "transaction", r.PathValue("id"), applog.OpDelete)
	w.WriteHeader(http.StatusNoContent)
}
