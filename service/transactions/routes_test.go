package transactions

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaginationParamsDefaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/transactions", nil)

	page, perPage, err := ParsePaginationParams(req)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, perPage)
}

func TestParsePaginationParamsExplicit(t *testing.T) {
	req := httptest.NewRequest("GET", "/transactions?page=3&per_page=25", nil)

	page, perPage, err := ParsePaginationParams(req)
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, perPage)
}

func TestParsePaginationParamsCapsPerPage(t *testing.T) {
	req := httptest.NewRequest("GET", "/transactions?per_page=500", nil)

	_, perPage, err := ParsePaginationParams(req)
	require.NoError(t, err)
	assert.Equal(t, 100, perPage)
}

func TestParsePaginationParamsRejectsZeroPage(t *testing.T) {
	req := httptest.NewRequest("GET", "/transactions?page=0", nil)

	_, _, err := ParsePaginationParams(req)
	assert.Error(t, err)
}
