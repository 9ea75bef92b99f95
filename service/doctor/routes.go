package doctor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/rangpurcare/rangpurcare-server/cmd/utils"
	"gorm.io/gorm"
)

type DoctorHandler struct {
	db *gorm.DB
}

func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{db: db}
}

func (h *DoctorHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/doctors", h.GetDoctors).Methods("GET")
	router.HandleFunc("/doctors/categories", h.GetCategories).Methods("GET")
	router.HandleFunc("/doctors/{idOrSlug}", h.GetDoctor).Methods("GET")
	router.HandleFunc("/doctors", utils.AuthMiddleware(h.CreateDoctor)).Methods("POST")
	router.HandleFunc("/doctors/{id}", utils.AuthMiddleware(h.UpdateDoctor)).Methods("PUT")
	router.HandleFunc("/doctors/{id}", utils.AuthMiddleware(h.DeleteDoctor)).Methods("DELETE")
	router.HandleFunc("/doctors/{id}/image", utils.AuthMiddleware(h.UploadImage)).Methods("POST")
}

// GetDoctors lists doctors for the public directory with optional filters
func (h *DoctorHandler) GetDoctors(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.Doctor{})

	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if district := r.URL.Query().Get("district"); district != "" {
		query = query.Where("district = ?", district)
	}
	if featured := r.URL.Query().Get("featured"); featured != "" {
		isFeatured, parseErr := strconv.ParseBool(featured)
		if parseErr != nil {
			http.Error(w, "Invalid value for 'featured'", http.StatusBadRequest)
			return
		}
		query = query.Where("featured = ?", isFeatured)
	}
	if available := r.URL.Query().Get("available"); available != "" {
		isAvailable, parseErr := strconv.ParseBool(available)
		if parseErr != nil {
			http.Error(w, "Invalid value for 'available'", http.StatusBadRequest)
			return
		}
		query = query.Where("available = ?", isAvailable)
	}
	if q := r.URL.Query().Get("q"); q != "" {
		searchQuery := "%" + q + "%"
		query = query.Where(
			"name ILIKE ? OR name_bn ILIKE ? OR degrees ILIKE ? OR workplace ILIKE ?",
			searchQuery, searchQuery, searchQuery, searchQuery,
		)
	}

	var total int64
	query.Count(&total)

	var doctors []models.Doctor
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("featured DESC, rating DESC, name ASC").Find(&doctors).Error; err != nil {
		http.Error(w, "Error retrieving doctors", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"doctors":     doctors,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetDoctor looks a doctor up by public UUID or slug. Anything that parses
// as a UUID is treated as one; the rest are slugs.
func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	idOrSlug := vars["idOrSlug"]

	var doctor models.Doctor
	var result *gorm.DB
	if _, err := uuid.Parse(idOrSlug); err == nil {
		result = h.db.Where("public_id = ?", idOrSlug).First(&doctor)
	} else {
		result = h.db.Where("slug = ?", idOrSlug).First(&doctor)
	}

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			http.Error(w, "Doctor not found", http.StatusNotFound)
		} else {
			http.Error(w, "Error retrieving doctor", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctor)
}

func (h *DoctorHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	var categories []string
	if err := h.db.Model(&models.Doctor{}).Distinct("category").
		Order("category ASC").Pluck("category", &categories).Error; err != nil {
		http.Error(w, "Error retrieving categories", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"categories": categories,
	})
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var doctor models.Doctor
	if err := json.NewDecoder(r.Body).Decode(&doctor); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if doctor.Name == "" || doctor.Category == "" {
		http.Error(w, "Name and category are required", http.StatusBadRequest)
		return
	}

	doctor.PublicID = uuid.New().String()
	if doctor.Slug == "" {
		doctor.Slug = Slugify(doctor.Name)
	}

	if err := h.db.Create(&doctor).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "A doctor with this slug already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Error creating doctor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doctor)
}

func (h *DoctorHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}

	var updateData models.Doctor
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, doctorID).Error; err != nil {
		http.Error(w, "Doctor not found", http.StatusNotFound)
		return
	}

	doctor.Name = updateData.Name
	doctor.NameBn = updateData.NameBn
	doctor.Category = updateData.Category
	doctor.District = updateData.District
	doctor.Degrees = updateData.Degrees
	doctor.Workplace = updateData.Workplace
	doctor.ChamberAddress = updateData.ChamberAddress
	doctor.AvailableDays = updateData.AvailableDays
	doctor.VisitingFee = updateData.VisitingFee
	doctor.SerialFee = updateData.SerialFee
	doctor.Available = updateData.Available
	doctor.Featured = updateData.Featured
	if updateData.Slug != "" {
		doctor.Slug = updateData.Slug
	}

	if err := h.db.Save(&doctor).Error; err != nil {
		http.Error(w, "Error updating doctor", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doctor)
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.Doctor{}, doctorID)
	if result.Error != nil {
		http.Error(w, "Error deleting doctor", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Doctor not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Doctor deleted successfully",
	})
}

func (h *DoctorHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid doctor ID", http.StatusBadRequest)
		return
	}

	var doctor models.Doctor
	if err := h.db.First(&doctor, doctorID).Error; err != nil {
		http.Error(w, "Doctor not found", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(utils.MaxImageSize); err != nil {
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	imageURL, err := utils.SaveImage(file, header)
	if err != nil {
		http.Error(w, fmt.Sprintf("Error saving image: %v", err), http.StatusInternalServerError)
		return
	}

	if doctor.ImagePath != "" {
		utils.DeleteImage(doctor.ImagePath)
	}

	doctor.ImagePath = imageURL
	if err := h.db.Save(&doctor).Error; err != nil {
		utils.DeleteImage(imageURL)
		http.Error(w, "Error updating doctor image", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message":    "Image uploaded successfully",
		"image_path": imageURL,
	})
}

// Slugify turns a display name into a URL slug: lower case, spaces and
// punctuation collapsed to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
