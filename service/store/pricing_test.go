package store

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rangpurcare/rangpurcare-server/cmd/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryChargeInsideCityIsFree(t *testing.T) {
	charge, err := DeliveryCharge(DeliveryAreaInsideCity, 120)
	require.NoError(t, err)
	assert.Equal(t, 0.0, charge)
}

func TestDeliveryChargeOutsideCityIsFlatFee(t *testing.T) {
	charge, err := DeliveryCharge(DeliveryAreaOutsideCity, 120)
	require.NoError(t, err)
	assert.Equal(t, 120.0, charge)
}

func TestDeliveryChargeUnknownArea(t *testing.T) {
	_, err := DeliveryCharge("dhaka", 120)
	assert.Error(t, err)

	_, err = DeliveryCharge("", 120)
	assert.Error(t, err)
}

func TestUnitPricePrefersSalePrice(t *testing.T) {
	sale := 80.0
	p := models.Product{Price: 100, SalePrice: &sale}
	assert.Equal(t, 80.0, UnitPrice(p))
}

func TestUnitPriceIgnoresBogusSalePrice(t *testing.T) {
	assert.Equal(t, 100.0, UnitPrice(models.Product{Price: 100}))

	higher := 150.0
	assert.Equal(t, 100.0, UnitPrice(models.Product{Price: 100, SalePrice: &higher}))

	zero := 0.0
	assert.Equal(t, 100.0, UnitPrice(models.Product{Price: 100, SalePrice: &zero}))
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	h := NewStoreHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(
		`{"customer_name":"Rafi","customer_phone":"01700000000","address":"Jahaj Company More","delivery_area":"inside_city","items":[]}`))
	rec := httptest.NewRecorder()

	h.CreateOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderRejectsNonPositiveQuantities(t *testing.T) {
	h := NewStoreHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/orders", strings.NewReader(
		`{"customer_name":"Rafi","customer_phone":"01700000000","address":"Jahaj Company More","delivery_area":"inside_city","items":[{"product_id":1,"quantity":0}]}`))
	rec := httptest.NewRecorder()

	h.CreateOrder(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
