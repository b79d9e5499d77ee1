package entity_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
)

var now = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Vendor", entity.DisplayName("vendors"))
	assert.Equal(t, "Product", entity.DisplayName("products"))
	assert.Equal(t, "Support", entity.DisplayName("support"))
	assert.Equal(t, "Vendor", entity.VendorSchema().DisplayName)
}

func TestSchema_Build_CoercionYDefaults(t *testing.T) {
	doc, err := entity.ProductSchema().Build(map[string]any{
		"name":     "Widget",
		"price":    "12.50",
		"quantity": float64(3),
		"unknown":  "se descarta",
	}, now)
	require.NoError(t, err)
	assert.Equal(t, "Widget", doc["name"])
	assert.True(t, decimal.RequireFromString("12.50").Equal(doc["price"].(decimal.Decimal)))
	assert.Equal(t, int64(3), doc["quantity"])
	assert.NotContains(t, doc, "unknown")
	assert.Equal(t, now, doc[entity.FieldCreatedAt])
	assert.Equal(t, now, doc[entity.FieldUpdatedAt])

	user, err := entity.UserSchema().Build(map[string]any{"username": "ana", "password": "x"}, now)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, user["role"])
}

func TestSchema_Build_ErroresPorCampo(t *testing.T) {
	_, err := entity.ProductSchema().Build(map[string]any{
		"name":     "   ",
		"quantity": 1.5,
		"price":    "abc",
	}, now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, map[string]string{
		"name":     "requerido",
		"quantity": "debe ser entero",
		"price":    "debe ser numérico",
	}, verr.Fields)
}

func TestSchema_Build_EnteroFueraDeRango(t *testing.T) {
	for _, q := range []float64{1e20, -1e20, 9223372036854775808} {
		_, err := entity.ProductSchema().Build(map[string]any{"name": "x", "quantity": q}, now)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, "%g", q)
		assert.Equal(t, "debe ser entero", verr.Fields["quantity"])
	}

	doc, err := entity.ProductSchema().Build(map[string]any{"name": "x", "quantity": float64(1 << 52)}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<52), doc["quantity"])
}

func TestSchema_Build_Fecha(t *testing.T) {
	doc, err := entity.AssetSchema().Build(map[string]any{"name": "Laptop", "purchaseDate": "2025-12-01"}, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), doc["purchaseDate"])

	_, err = entity.AssetSchema().Build(map[string]any{"name": "Laptop", "purchaseDate": "ayer"}, now)
	assert.Error(t, err)
}

func TestSchema_Patch(t *testing.T) {
	s := entity.VendorSchema()

	patch, err := s.Patch(map[string]any{"phone": "555", "email": nil, "_id": "x"}, now)
	require.NoError(t, err)
	assert.Equal(t, entity.Document{"phone": "555", "email": nil, entity.FieldUpdatedAt: now}, patch)

	_, err = s.Patch(map[string]any{"name": nil}, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = s.Patch(map[string]any{"name": ""}, now)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestSchema_ProjectOcultaSecretos(t *testing.T) {
	s := entity.UserSchema()
	doc := entity.Document{"_id": "u1", "username": "ana", "password": "$2a$hash"}

	out := s.Project(doc)
	assert.NotContains(t, out, "password")
	assert.Equal(t, "$2a$hash", doc["password"], "el original no cambia")
	require.Len(t, s.SecretFields(), 1)
	assert.Equal(t, "password", s.SecretFields()[0].Name)
	assert.Len(t, s.UniqueFields(), 2)
}
