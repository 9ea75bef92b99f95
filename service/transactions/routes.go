package transactions

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
)

// TransactionFilter holds the optional query filters for the ledger.
type TransactionFilter struct {
	Method    string
	Purpose   string
	Reference string
	MinAmount float64
	MaxAmount float64
	StartDate time.Time
	EndDate   time.Time
}

type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
	Error      string         `json:"error,omitempty"`
}

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

type TransactionHandler struct {
	db *gorm.DB
}

func NewTransactionHandler(db *gorm.DB) *TransactionHandler {
	return &TransactionHandler{db: db}
}

func (h *TransactionHandler) RegisterRoutes(router *mux.Router) {
	transactionRouter := router.PathPrefix("/transactions").Subrouter()

	transactionRouter.HandleFunc("", utils.AuthMiddleware(h.GetTransactions)).Methods("GET")
	transactionRouter.HandleFunc("/summary", utils.AuthMiddleware(h.GetSummary)).Methods("GET")
}

// ParsePaginationParams extracts page and per_page with the usual defaults.
func ParsePaginationParams(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if query.Get("page") != "" {
		parsedPage, err := strconv.Atoi(query.Get("page"))
		if err != nil || parsedPage < 1 {
			return 0, 0, fmt.Errorf("invalid page parameter")
		}
		page = parsedPage
	}

	perPage := 10
	if query.Get("per_page") != "" {
		parsedPerPage, err := strconv.Atoi(query.Get("per_page"))
		if err != nil || parsedPerPage < 1 {
			return 0, 0, fmt.Errorf("invalid per_page parameter")
		}
		if parsedPerPage > 100 {
			perPage = 100
		} else {
			perPage = parsedPerPage
		}
	}

	return page, perPage, nil
}

// GetTransactions lists settled payments with optional filters.
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	var filter TransactionFilter
	var err error

	queryParams := r.URL.Query()
	filter.Method = queryParams.Get("method")
	filter.Purpose = queryParams.Get("purpose")
	filter.Reference = queryParams.Get("reference")

	if minAmountStr := queryParams.Get("min_amount"); minAmountStr != "" {
		filter.MinAmount, err = strconv.ParseFloat(minAmountStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid min_amount parameter")
			return
		}
	}
	if maxAmountStr := queryParams.Get("max_amount"); maxAmountStr != "" {
		filter.MaxAmount, err = strconv.ParseFloat(maxAmountStr, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid max_amount parameter")
			return
		}
	}

	layout := "2006-01-02"
	if startDateStr := queryParams.Get("start_date"); startDateStr != "" {
		filter.StartDate, err = time.Parse(layout, startDateStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid start_date format. Use YYYY-MM-DD")
			return
		}
	}
	if endDateStr := queryParams.Get("end_date"); endDateStr != "" {
		filter.EndDate, err = time.Parse(layout, endDateStr)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid end_date format. Use YYYY-MM-DD")
			return
		}
	}

	query := h.db.Model(&models.Transaction{}).Order("created_at DESC")

	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
	}
	if filter.Purpose != "" {
		query = query.Where("purpose = ?", filter.Purpose)
	}
	if filter.Reference != "" {
		query = query.Where("reference = ?", filter.Reference)
	}
	if filter.MinAmount != 0 {
		query = query.Where("amount >= ?", filter.MinAmount)
	}
	if filter.MaxAmount != 0 {
		query = query.Where("amount <= ?", filter.MaxAmount)
	}
	if !filter.StartDate.IsZero() {
		query = query.Where("created_at >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		// Shift a day so the end date is inclusive.
		query = query.Where("created_at < ?", filter.EndDate.Add(24*time.Hour))
	}

	page, perPage, err := ParsePaginationParams(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}
	offset := (page - 1) * perPage

	var totalItems int64
	query.Count(&totalItems)

	var transactions []models.Transaction
	result := query.Limit(perPage).Offset(offset).Find(&transactions)
	if result.Error != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(perPage)))
	respondWithJSON(w, http.StatusOK, PaginatedResponse{
		Data: transactions,
		Pagination: PaginationMeta{
			CurrentPage: page,
			PerPage:     perPage,
			TotalItems:  totalItems,
			TotalPages:  totalPages,
			HasPrevious: page > 1,
			HasNext:     page < totalPages,
		},
	})
}

// GetSummary returns totals per purpose for the admin revenue cards.
func (h *TransactionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	type purposeTotal struct {
		Purpose string  `json:"purpose"`
		Count   int64   `json:"count"`
		Total   float64 `json:"total"`
	}

	var totals []purposeTotal
	err := h.db.Model(&models.Transaction{}).
		Select("purpose, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Group("purpose").
		Scan(&totals).Error
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to compute summary")
		return
	}

	var grandTotal float64
	for _, t := range totals {
		grandTotal += t.Total
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"by_purpose":  totals,
		"grand_total": grandTotal,
	})
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
