package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		key          string
		body         string
		wantContract string
		wantPayments string
		expectError  bool
	}{
		{
			name:         "Nested Structure",
			key:          "schedule",
			body:         `{"schedule": {"contract": {"period": 12}, "payments": []}}`,
			wantContract: `{"period": 12}`,
			wantPayments: `[]`,
		},
		{
			name:         "Flat Structure",
			key:          "schedule",
			body:         `{"contract": {"period": 6}, "payments": [{"id": 1}]}`,
			wantContract: `{"period": 6}`,
			wantPayments: `[{"id": 1}]`,
		},
		{
			name:         "Missing Key Falls Back to Flat",
			key:          "schedule",
			body:         `{"other": "value", "contract": {"period": 3}}`,
			wantContract: `{"period": 3}`,
		},
		{
			name:        "Invalid JSON",
			key:         "schedule",
			body:        `{"contract": `,
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "schedule",
			body:        `{"schedule": "some string"}`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result PreviewRequest
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantContract, string(result.Contract))
			assert.Equal(t, tt.wantPayments, string(result.Payments))
		})
	}
}
