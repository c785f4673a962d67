package bind_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelane/storelane/pkg/bind"
)

type signupPayload struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
}

func TestJSONDecodesAndValidates(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ada","email":"ada@example.com"}`))

	var in signupPayload
	errs, err := bind.JSON(req, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Ada", in.Name)
}

func TestJSONReportsValidationFailures(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"A","email":"nope"}`))

	var in signupPayload
	errs, err := bind.JSON(req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
}

func TestJSONRejectsMalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))

	var in signupPayload
	_, err := bind.JSON(req, &in)
	assert.Error(t, err)
}
