package blog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
	"github.com/rangpurcare/rangpurcare-server/service/embed"
	"gorm.io/gorm"
)

type BlogHandler struct {
	db *gorm.DB
}

func NewBlogHandler(db *gorm.DB) *BlogHandler {
	return &BlogHandler{db: db}
}

func (h *BlogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/blog", h.GetPosts).Methods("GET")
	router.HandleFunc("/blog/{slug}", h.GetPost).Methods("GET")
	router.HandleFunc("/blog/{slug}/segments", h.GetPostSegments).Methods("GET")
	router.HandleFunc("/blog", utils.AuthMiddleware(h.CreatePost)).Methods("POST")
	router.HandleFunc("/blog/{id}", utils.AuthMiddleware(h.UpdatePost)).Methods("PUT")
	router.HandleFunc("/blog/{id}", utils.AuthMiddleware(h.DeletePost)).Methods("DELETE")
}

func (h *BlogHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 10

	query := h.db.Model(&models.BlogPost{}).Where("published = ?", true)

	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("? = ANY(categories)", category)
	}

	var total int64
	query.Count(&total)

	var posts []models.BlogPost
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		http.Error(w, "Error retrieving posts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"posts":       posts,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetPost serves a published post and counts the view with an atomic
// column increment, so concurrent readers never lose updates.
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var post models.BlogPost
	if err := h.db.Where("slug = ? AND published = ?", vars["slug"], true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
		} else {
			http.Error(w, "Error retrieving post", http.StatusInternalServerError)
		}
		return
	}

	h.db.Model(&models.BlogPost{}).Where("id = ?", post.ID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	post.ViewCount++

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// DoctorCard is the slim doctor shape mounted inside article bodies.
type DoctorCard struct {
	PublicID  string  `json:"public_id"`
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Degrees   string  `json:"degrees"`
	ImagePath string  `json:"image_path"`
	Rating    float64 `json:"rating"`
}

type renderedSegment struct {
	embed.Segment
	Doctors []DoctorCard `json:"doctors,omitempty"`
}

// GetPostSegments tokenizes the stored article body and resolves every
// doctor embed in it. Identifiers are looked up in two batched queries (one
// for UUIDs, one for slugs); results keep the order the placeholder listed
// them in, unknown identifiers are skipped.
func (h *BlogHandler) GetPostSegments(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var post models.BlogPost
	if err := h.db.Where("slug = ? AND published = ?", vars["slug"], true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Post not found", http.StatusNotFound)
		} else {
			http.Error(w, "Error retrieving post", http.StatusInternalServerError)
		}
		return
	}

	segments := embed.Parse(post.ContentHTML)

	var allRefs []string
	for _, seg := range segments {
		allRefs = append(allRefs, seg.Refs...)
	}

	cards, err := h.resolveDoctorCards(allRefs)
	if err != nil {
		http.Error(w, "Error resolving embedded doctors", http.StatusInternalServerError)
		return
	}

	rendered := make([]renderedSegment, 0, len(segments))
	for _, seg := range segments {
		rs := renderedSegment{Segment: seg}
		if seg.Type == embed.SegmentDoctorEmbed {
			rs.Doctors = OrderCards(seg.Refs, cards)
		}
		rendered = append(rendered, rs)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"slug":     post.Slug,
		"title":    post.Title,
		"segments": rendered,
	})
}

// resolveDoctorCards fetches every referenced doctor, keyed by both public
// id and slug so either identifier form finds its card.
func (h *BlogHandler) resolveDoctorCards(refs []string) (map[string]DoctorCard, error) {
	cards := make(map[string]DoctorCard)
	if len(refs) == 0 {
		return cards, nil
	}

	uuids, slugs := embed.ClassifyRefs(refs)

	var doctors []models.Doctor
	if len(uuids) > 0 {
		var byID []models.Doctor
		if err := h.db.Where("public_id IN ?", uuids).Find(&byID).Error; err != nil {
			return nil, err
		}
		doctors = append(doctors, byID...)
	}
	if len(slugs) > 0 {
		var bySlug []models.Doctor
		if err := h.db.Where("slug IN ?", slugs).Find(&bySlug).Error; err != nil {
			return nil, err
		}
		doctors = append(doctors, bySlug...)
	}

	for _, d := range doctors {
		card := DoctorCard{
			PublicID:  d.PublicID,
			Slug:      d.Slug,
			Name:      d.Name,
			Category:  d.Category,
			Degrees:   d.Degrees,
			ImagePath: d.ImagePath,
			Rating:    d.Rating,
		}
		cards[d.PublicID] = card
		cards[d.Slug] = card
	}

	return cards, nil
}

// OrderCards returns the cards for refs in the order requested, dropping
// refs with no match and collapsing duplicates to their first position.
func OrderCards(refs []string, cards map[string]DoctorCard) []DoctorCard {
	ordered := make([]DoctorCard, 0, len(refs))
	seen := make(map[string]bool)
	for _, ref := range refs {
		card, ok := cards[ref]
		if !ok || seen[card.Slug] {
			continue
		}
		seen[card.Slug] = true
		ordered = append(ordered, card)
	}
	return ordered
}

func (h *BlogHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post models.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if post.Title == "" || post.ContentHTML == "" {
		http.Error(w, "Title and content are required", http.StatusBadRequest)
		return
	}

	if post.Slug == "" {
		http.Error(w, "Slug is required", http.StatusBadRequest)
		return
	}

	post.ViewCount = 0

	if err := h.db.Create(&post).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "A post with this slug already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Error creating post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

func (h *BlogHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var updateData models.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var post models.BlogPost
	if err := h.db.First(&post, postID).Error; err != nil {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	post.Title = updateData.Title
	post.Excerpt = updateData.Excerpt
	post.ContentHTML = updateData.ContentHTML
	post.CoverImagePath = updateData.CoverImagePath
	post.Categories = updateData.Categories
	post.MetaTitle = updateData.MetaTitle
	post.MetaDescription = updateData.MetaDescription
	post.Published = updateData.Published
	if updateData.Slug != "" {
		post.Slug = updateData.Slug
	}

	if err := h.db.Save(&post).Error; err != nil {
		http.Error(w, "Error updating post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

func (h *BlogHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	postID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid post ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.BlogPost{}, postID)
	if result.Error != nil {
		http.Error(w, "Error deleting post", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Post not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Post deleted successfully",
	})
}
