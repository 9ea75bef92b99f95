package review

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
	"gorm.io/gorm"
)

type ReviewHandler struct {
	db *gorm.DB
}

func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

func (h *ReviewHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reviews", h.SubmitReview).Methods("POST")
	router.HandleFunc("/reviews/{scope}/{subjectId}", h.GetApprovedReviews).Methods("GET")
	router.HandleFunc("/reviews/pending", utils.AuthMiddleware(h.GetPendingReviews)).Methods("GET")
	router.HandleFunc("/reviews/{id}/approve", utils.AuthMiddleware(h.ApproveReview)).Methods("PATCH")
	router.HandleFunc("/reviews/{id}", utils.AuthMiddleware(h.DeleteReview)).Methods("DELETE")
}

func validScope(scope string) bool {
	return scope == models.ReviewScopeDoctor || scope == models.ReviewScopeProduct
}

func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !validScope(review.Scope) {
		http.Error(w, "Scope must be doctor or product", http.StatusBadRequest)
		return
	}
	if review.SubjectID == 0 || review.AuthorName == "" {
		http.Error(w, "Subject and author name are required", http.StatusBadRequest)
		return
	}
	if review.Rating < 1 || review.Rating > 5 {
		http.Error(w, "Rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	review.Status = models.ReviewStatusPending

	if err := h.db.Create(&review).Error; err != nil {
		http.Error(w, "Error submitting review", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(review)
}

func (h *ReviewHandler) GetApprovedReviews(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	scope := vars["scope"]
	if !validScope(scope) {
		http.Error(w, "Scope must be doctor or product", http.StatusBadRequest)
		return
	}

	subjectID, err := strconv.ParseUint(vars["subjectId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid subject ID", http.StatusBadRequest)
		return
	}

	var reviews []models.Review
	if err := h.db.Where("scope = ? AND subject_id = ? AND status = ?",
		scope, subjectID, models.ReviewStatusApproved).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		http.Error(w, "Error retrieving reviews", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reviews)
}

func (h *ReviewHandler) GetPendingReviews(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 50

	query := h.db.Model(&models.Review{}).Where("status = ?", models.ReviewStatusPending)

	var total int64
	query.Count(&total)

	var reviews []models.Review
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at ASC").Find(&reviews).Error; err != nil {
		http.Error(w, "Error retrieving reviews", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"reviews":     reviews,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ApproveReview flips a pending review to approved. For doctor reviews the
// doctor's rating aggregate is recomputed in the same transaction.
func (h *ReviewHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reviewID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	tx := h.db.Begin()

	var review models.Review
	if err := tx.First(&review, reviewID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Review not found", http.StatusNotFound)
		} else {
			http.Error(w, "Error retrieving review", http.StatusInternalServerError)
		}
		return
	}

	if review.Status == models.ReviewStatusApproved {
		tx.Rollback()
		http.Error(w, "Review is already approved", http.StatusConflict)
		return
	}

	review.Status = models.ReviewStatusApproved
	if err := tx.Save(&review).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error approving review", http.StatusInternalServerError)
		return
	}

	if review.Scope == models.ReviewScopeDoctor {
		if err := recomputeDoctorRating(tx, review.SubjectID); err != nil {
			tx.Rollback()
			http.Error(w, "Error updating doctor rating", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing approval", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Review approved",
		"review":  review,
	})
}

func recomputeDoctorRating(tx *gorm.DB, doctorID uint) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("scope = ? AND subject_id = ? AND status = ?",
			models.ReviewScopeDoctor, doctorID, models.ReviewStatusApproved).
		Scan(&stats).Error; err != nil {
		return err
	}

	return tx.Model(&models.Doctor{}).Where("id = ?", doctorID).
		Updates(map[string]interface{}{
			"rating":        stats.Avg,
			"total_reviews": stats.Count,
		}).Error
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reviewID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid review ID", http.StatusBadRequest)
		return
	}

	tx := h.db.Begin()

	var review models.Review
	if err := tx.First(&review, reviewID).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Review not found", http.StatusNotFound)
		return
	}

	if err := tx.Unscoped().Delete(&review).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error deleting review", http.StatusInternalServerError)
		return
	}

	// deleting an approved doctor review changes the aggregate too
	if review.Scope == models.ReviewScopeDoctor && review.Status == models.ReviewStatusApproved {
		if err := recomputeDoctorRating(tx, review.SubjectID); err != nil {
			tx.Rollback()
			http.Error(w, "Error updating doctor rating", http.StatusInternalServerError)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing deletion", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Review deleted successfully",
	})
}
