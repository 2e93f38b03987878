package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string `json:"name" validate:"required,min=2"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"ok"}`, false},
		{"unknown fields ignored", `{"name":"ok","extra":1}`, false},
		{"empty", ``, true},
		{"syntax error", `{"name":`, true},
		{"wrong type", `{"name":5}`, true},
		{"trailing data", `{"name":"a"}{"name":"b"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req sampleRequest
			err := DecodeJSON(httptest.NewRecorder(), r, &req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedBody)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok", req.Name)
		})
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	t.Parallel()

	body := `{"name":"` + strings.Repeat("a", MaxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var req sampleRequest
	assert.ErrorIs(t, DecodeJSON(httptest.NewRecorder(), r, &req), ErrMalformedBody)
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "ok"}))
	assert.Error(t, ValidateRequest(&sampleRequest{Name: "x"}))
}

func TestValidateRequest_ReportsWireFieldNames(t *testing.T) {
	t.Parallel()

	type form struct {
		Username string `form:"username" validate:"required"`
		Token    string `json:"refresh_token,omitempty" validate:"required"`
	}

	err := ValidateRequest(&form{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "username", verrs[0].Field())
	assert.Equal(t, "refresh_token", verrs[1].Field())
}
