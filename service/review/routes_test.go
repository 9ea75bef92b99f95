package review

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidScope(t *testing.T) {
	assert.True(t, validScope("doctor"))
	assert.True(t, validScope("product"))
	assert.False(t, validScope("ambulance"))
	assert.False(t, validScope(""))
}

func TestSubmitReviewRejectsRatingOutOfBounds(t *testing.T) {
	h := NewReviewHandler(nil)

	for _, rating := range []int{0, -1, 6, 100} {
		body := fmt.Sprintf(`{"scope":"doctor","subject_id":1,"author_name":"Salma","rating":%d}`, rating)
		req := httptest.NewRequest("POST", "/api/v1/reviews", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.SubmitReview(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "rating %d", rating)
	}
}

func TestSubmitReviewRejectsUnknownScope(t *testing.T) {
	h := NewReviewHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/reviews",
		strings.NewReader(`{"scope":"blog","subject_id":1,"author_name":"Salma","rating":4}`))
	rec := httptest.NewRecorder()

	h.SubmitReview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitReviewRequiresSubjectAndAuthor(t *testing.T) {
	h := NewReviewHandler(nil)

	req := httptest.NewRequest("POST", "/api/v1/reviews",
		strings.NewReader(`{"scope":"product","rating":4}`))
	rec := httptest.NewRecorder()

	h.SubmitReview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
