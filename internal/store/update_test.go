package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSet_Empty(t *testing.T) {
	u := NewUpdateSet()
	assert.True(t, u.Empty())

	clause, args := u.Clause(1)
	assert.Equal(t, "", clause)
	assert.Empty(t, args)
}

func TestUpdateSet_SingleColumn(t *testing.T) {
	u := NewUpdateSet().Set("name", "Acme")

	clause, args := u.Clause(1)
	assert.Equal(t, "name = $1", clause)
	assert.Equal(t, []any{"Acme"}, args)
}

func TestUpdateSet_PreservesInsertionOrder(t *testing.T) {
	u := NewUpdateSet().
		Set("name", "Acme").
		Set("phone", "9876543210").
		Set("city", "Chennai")

	clause, args := u.Clause(1)
	assert.Equal(t, "name = $1, phone = $2, city = $3", clause)
	assert.Equal(t, []any{"Acme", "9876543210", "Chennai"}, args)
}

func TestUpdateSet_StartIndexOffset(t *testing.T) {
	// Placeholders continue from where the caller's WHERE arguments end.
	u := NewUpdateSet().Set("days", 30).Set("updated_at", "now")

	clause, args := u.Clause(3)
	assert.Equal(t, "days = $3, updated_at = $4", clause)
	assert.Len(t, args, 2)
}

func TestUpdateSet_NilPointersAreSkipped(t *testing.T) {
	name := "Acme"
	u := NewUpdateSet().
		SetString("name", &name).
		SetString("phone", nil).
		SetInt("user_limit", nil).
		SetBool("secure", nil)

	assert.Equal(t, []string{"name"}, u.Columns())

	clause, args := u.Clause(1)
	assert.Equal(t, "name = $1", clause)
	assert.Equal(t, []any{"Acme"}, args)
}

func TestUpdateSet_TypedSetters(t *testing.T) {
	port := 587
	secure := true
	host := "smtp.example.com"

	u := NewUpdateSet().
		SetString("host", &host).
		SetInt("port", &port).
		SetBool("secure", &secure)

	clause, args := u.Clause(1)
	assert.Equal(t, "host = $1, port = $2, secure = $3", clause)
	assert.Equal(t, []any{"smtp.example.com", 587, true}, args)
}
