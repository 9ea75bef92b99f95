package store

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

type StoreHandler struct {
	db *gorm.DB
}

func NewStoreHandler(db *gorm.DB) *StoreHandler {
	return &StoreHandler{db: db}
}

func (h *StoreHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/products", h.GetProducts).Methods("GET")
	router.HandleFunc("/products/{slug}", h.GetProduct).Methods("GET")
	router.HandleFunc("/products", utils.AuthMiddleware(h.CreateProduct)).Methods("POST")
	router.HandleFunc("/products/{id}", utils.AuthMiddleware(h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/products/{id}", utils.AuthMiddleware(h.DeleteProduct)).Methods("DELETE")

	router.HandleFunc("/orders", h.CreateOrder).Methods("POST")
	router.HandleFunc("/orders", utils.AuthMiddleware(h.GetOrders)).Methods("GET")
	router.HandleFunc("/orders/ref/{ref}", h.GetOrderByRef).Methods("GET")
	router.HandleFunc("/orders/{id}/status", utils.AuthMiddleware(h.UpdateOrderStatus)).Methods("PATCH")
}

func (h *StoreHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.Product{}).Where("active = ?", true)

	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if q := r.URL.Query().Get("q"); q != "" {
		searchQuery := "%" + q + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", searchQuery, searchQuery)
	}

	var total int64
	query.Count(&total)

	var products []models.Product
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").Find(&products).Error; err != nil {
		http.Error(w, "Error retrieving products", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"products":    products,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *StoreHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var product models.Product
	if err := h.db.Where("slug = ? AND active = ?", vars["slug"], true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Product not found", http.StatusNotFound)
		} else {
			http.Error(w, "Error retrieving product", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

func (h *StoreHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if product.Name == "" || product.Slug == "" || product.Price <= 0 {
		http.Error(w, "Name, slug and a positive price are required", http.StatusBadRequest)
		return
	}

	if err := h.db.Create(&product).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			http.Error(w, "A product with this slug already exists", http.StatusConflict)
			return
		}
		http.Error(w, "Error creating product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(product)
}

func (h *StoreHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var updateData models.Product
	if err := json.NewDecoder(r.Body).Decode(&updateData); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var product models.Product
	if err := h.db.First(&product, productID).Error; err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	product.Name = updateData.Name
	product.Description = updateData.Description
	product.Price = updateData.Price
	product.SalePrice = updateData.SalePrice
	product.Stock = updateData.Stock
	product.Category = updateData.Category
	product.Active = updateData.Active
	if updateData.Slug != "" {
		product.Slug = updateData.Slug
	}

	if err := h.db.Save(&product).Error; err != nil {
		http.Error(w, "Error updating product", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(product)
}

func (h *StoreHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	result := h.db.Delete(&models.Product{}, productID)
	if result.Error != nil {
		http.Error(w, "Error deleting product", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Product deleted successfully",
	})
}

// CreateOrder computes all money server side: unit prices from the product
// rows, the delivery charge from the two-tier rule, never from the client.
func (h *StoreHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var orderRequest struct {
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
		Address       string `json:"address"`
		DeliveryArea  string `json:"delivery_area"`
		Items         []struct {
			ProductID uint `json:"product_id"`
			Quantity  int  `json:"quantity"`
		} `json:"items"`
	}

	if err := json.NewDecoder(r.Body).Decode(&orderRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if orderRequest.CustomerName == "" || orderRequest.CustomerPhone == "" ||
		orderRequest.Address == "" {
		http.Error(w, "Customer name, phone and address are required", http.StatusBadRequest)
		return
	}
	if len(orderRequest.Items) == 0 {
		http.Error(w, "Order must contain at least one item", http.StatusBadRequest)
		return
	}
	for _, item := range orderRequest.Items {
		if item.Quantity < 1 {
			http.Error(w, "Item quantities must be positive", http.StatusBadRequest)
			return
		}
	}

	outsideFee := h.outsideCityFee()
	deliveryCharge, err := DeliveryCharge(orderRequest.DeliveryArea, outsideFee)
	if err != nil {
		http.Error(w, "Delivery area must be inside_city or outside_city", http.StatusBadRequest)
		return
	}

	tx := h.db.Begin()

	var subtotal float64
	items := make([]models.OrderItem, 0, len(orderRequest.Items))
	for _, item := range orderRequest.Items {
		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			tx.Rollback()
			http.Error(w, fmt.Sprintf("Product %d not found", item.ProductID), http.StatusNotFound)
			return
		}

		if !product.Active {
			tx.Rollback()
			http.Error(w, fmt.Sprintf("Product %s is no longer available", product.Name), http.StatusConflict)
			return
		}

		if product.Stock < item.Quantity {
			tx.Rollback()
			http.Error(w, fmt.Sprintf("Not enough stock for %s", product.Name), http.StatusConflict)
			return
		}

		if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
			UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
			tx.Rollback()
			http.Error(w, "Error reserving stock", http.StatusInternalServerError)
			return
		}

		price := UnitPrice(product)
		subtotal += price * float64(item.Quantity)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}

	order := models.Order{
		OrderRef:       newOrderRef(),
		CustomerName:   orderRequest.CustomerName,
		CustomerPhone:  orderRequest.CustomerPhone,
		Address:        orderRequest.Address,
		DeliveryArea:   orderRequest.DeliveryArea,
		Subtotal:       subtotal,
		DeliveryCharge: deliveryCharge,
		Total:          subtotal + deliveryCharge,
		Status:         "pending",
		PaymentStatus:  "unpaid",
		Items:          items,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error creating order", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error completing order", http.StatusInternalServerError)
		return
	}

	h.db.Preload("Items.Product").First(&order, order.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

func (h *StoreHandler) outsideCityFee() float64 {
	var settings models.ContactSettings
	if err := h.db.Order("id ASC").First(&settings).Error; err != nil {
		return DefaultOutsideCityFee
	}
	if settings.OutsideCityFee <= 0 {
		return DefaultOutsideCityFee
	}
	return settings.OutsideCityFee
}

func newOrderRef() string {
	return fmt.Sprintf("ORD-%s", strings.ToUpper(uuid.New().String()[:8]))
}

func (h *StoreHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 50

	query := h.db.Model(&models.Order{}).Preload("Items.Product")

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if phone := r.URL.Query().Get("phone"); phone != "" {
		query = query.Where("customer_phone = ?", phone)
	}

	var total int64
	query.Count(&total)

	var orders []models.Order
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		http.Error(w, "Error retrieving orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"orders":      orders,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *StoreHandler) GetOrderByRef(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var order models.Order
	if err := h.db.Preload("Items.Product").
		Where("order_ref = ?", vars["ref"]).First(&order).Error; err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

func (h *StoreHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orderID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var statusUpdate struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusUpdate); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	switch statusUpdate.Status {
	case "pending", "processing", "shipped", "delivered", "cancelled":
	default:
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}

	result := h.db.Model(&models.Order{}).Where("id = ?", orderID).
		Update("status", statusUpdate.Status)
	if result.Error != nil {
		http.Error(w, "Error updating status", http.StatusInternalServerError)
		return
	}

	if result.RowsAffected == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Status updated successfully",
	})
}
