package blog

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderCardsKeepsRequestedOrder(t *testing.T) {
	cards := map[string]DoctorCard{
		"dr-a": {Slug: "dr-a", Name: "Dr A"},
		"dr-b": {Slug: "dr-b", Name: "Dr B"},
		"9f0c2c1e-23a0-4c5d-8f7e-0a1b2c3d4e5f": {Slug: "dr-c", Name: "Dr C"},
	}

	ordered := OrderCards([]string{
		"9f0c2c1e-23a0-4c5d-8f7e-0a1b2c3d4e5f", // uuid ref resolves like a slug ref
		"dr-a",
		"dr-missing", // no match, skipped
		"dr-b",
	}, cards)

	assert.Equal(t, []string{"Dr C", "Dr A", "Dr B"}, cardNames(ordered))
}

func TestOrderCardsCollapsesDuplicates(t *testing.T) {
	cards := map[string]DoctorCard{
		"dr-a": {Slug: "dr-a", Name: "Dr A"},
		"id-a": {Slug: "dr-a", Name: "Dr A"},
	}

	// same doctor referenced twice, once per identifier form
	ordered := OrderCards([]string{"dr-a", "id-a", "dr-a"}, cards)

	assert.Equal(t, []string{"Dr A"}, cardNames(ordered))
}

func TestOrderCardsEmptyRefs(t *testing.T) {
	assert.Empty(t, OrderCards(nil, map[string]DoctorCard{}))
}

func cardNames(cards []DoctorCard) []string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.Name)
	}
	return names
}

func TestCreatePostRequiresTitleContentSlug(t *testing.T) {
	h := NewBlogHandler(nil)

	cases := []string{
		`{"slug":"winter-tips","content_html":"<p>x</p>"}`,
		`{"slug":"winter-tips","title":"Winter tips"}`,
		`{"title":"Winter tips","content_html":"<p>x</p>"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest("POST", "/api/v1/blog", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.CreatePost(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}
}
