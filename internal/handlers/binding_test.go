package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type testPayload struct {
	Nome  string `json:"nome"`
	Valor int    `json:"valor"`
}

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    testPayload
		expectError bool
	}{
		{
			name:     "Nested structure",
			key:      "pessoa",
			body:     `{"pessoa": {"nome": "Maria", "valor": 30}}`,
			expected: testPayload{Nome: "Maria", Valor: 30},
		},
		{
			name:     "Flat structure",
			key:      "pessoa",
			body:     `{"nome": "João", "valor": 25}`,
			expected: testPayload{Nome: "João", Valor: 25},
		},
		{
			name:     "Missing key falls back to flat",
			key:      "pessoa",
			body:     `{"outro": "x", "nome": "Ana", "valor": 40}`,
			expected: testPayload{Nome: "Ana", Valor: 40},
		},
		{
			name:        "Invalid field type",
			key:         "pessoa",
			body:        `{"nome": "Eva", "valor": "muito"}`,
			expectError: true,
		},
		{
			name:        "Nested key with invalid content",
			key:         "pessoa",
			body:        `{"pessoa": "texto solto"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result testPayload
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}
		})
	}
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "contrato_id", Value: "42"}}

	assert.Equal(t, uint(42), paramID(c, "contrato_id"))
	assert.Equal(t, uint(0), paramID(c, "inexistente"))

	c.Params = gin.Params{{Key: "contrato_id", Value: "abc"}}
	assert.Equal(t, uint(0), paramID(c, "contrato_id"))
}

func TestPagination(t *testing.T) {
	p := pagination(2, 25, 120)
	assert.Equal(t, 2, p["page"])
	assert.Equal(t, 25, p["per_page"])
	assert.Equal(t, int64(120), p["total"])
	assert.Equal(t, int64(5), p["total_pages"])

	// Partial last page rounds up
	p = pagination(1, 25, 101)
	assert.Equal(t, int64(5), p["total_pages"])

	p = pagination(1, 0, 10)
	assert.Equal(t, int64(0), p["total_pages"])
}
