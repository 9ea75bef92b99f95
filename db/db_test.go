package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolSize(t *testing.T) {
	assert.Equal(t, 25, poolSize("DB_MAX_OPEN_CONNS", 25))

	t.Setenv("DB_MAX_OPEN_CONNS", "40")
	assert.Equal(t, 40, poolSize("DB_MAX_OPEN_CONNS", 25))

	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")
	assert.Equal(t, 25, poolSize("DB_MAX_OPEN_CONNS", 25))

	t.Setenv("DB_MAX_OPEN_CONNS", "-3")
	assert.Equal(t, 25, poolSize("DB_MAX_OPEN_CONNS", 25))
}
