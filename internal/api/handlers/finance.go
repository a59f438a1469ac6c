package handlers

import (
	"errors"
	"net/http"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/store"
	"github.com/wonny/aura/backend/pkg/logger"
)

// FinanceHandler serves the generated statements
// ⭐ SSOT: 재무 데이터 API 핸들러는 이 구조체에서만
type FinanceHandler struct {
	store  *store.Store
	logger *logger.Logger
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(s *store.Store, log *logger.Logger) *FinanceHandler {
	return &FinanceHandler{store: s, logger: log}
}

// GetFinanceData returns one statement or the ratio table
// GET /finance_data?company=aura&sheet=合并-bs&periods=2024,2025_Q1
func (h *FinanceHandler) GetFinanceData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	resp, err := h.store.Query(q.Get("company"), q.Get("sheet"), q.Get("periods"))
	if err != nil {
		var notFound *contracts.NotFoundError
		var badPeriod *contracts.InvalidPeriodError
		switch {
		case errors.As(err, &notFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.As(err, &badPeriod):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.WithError(err).Error("Finance query failed")
			respondError(w, http.StatusInternalServerError, "Failed to query finance data")
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// ListCompanies returns the profile table
// GET /api/companies
func (h *FinanceHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"companies": h.store.Companies(),
	})
}

// ListPeriods returns the period sequence
// GET /api/periods
func (h *FinanceHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"periods": h.store.Periods(),
	})
}

// GetDataset returns metadata of the dataset being served
// GET /api/dataset
func (h *FinanceHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	ds := h.store.Current()
	respondJSON(w, http.StatusOK, contracts.DatasetEvent{
		Type:        "dataset",
		DatasetID:   ds.ID,
		Seed:        ds.Seed,
		GeneratedAt: ds.GeneratedAt,
	})
}
