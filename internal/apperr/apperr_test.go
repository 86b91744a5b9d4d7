package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/query"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/store"
)

func TestConstructorsCarryCodes(t *testing.T) {
	tests := []struct {
		err    *Error
		code   string
		status int
		msg    string
	}{
		{Unauthenticated(""), "UNAUTHENTICATED", 401, "Authentication required"},
		{Forbidden("nope"), "FORBIDDEN", 403, "nope"},
		{Validation("bad"), "BAD_USER_INPUT", 400, "bad"},
		{NotFound("Novel not found"), "NOT_FOUND", 404, "Novel not found"},
		{Conflict(""), "CONFLICT", 409, "Resource conflict"},
		{RateLimited(""), "RATE_LIMIT_EXCEEDED", 429, "Rate limit exceeded"},
		{Internal(errors.New("x")), "INTERNAL_SERVER_ERROR", 500, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			require.Equal(t, tt.msg, tt.err.Error())
			ext := tt.err.Extensions()
			require.Equal(t, tt.code, ext["code"])
			require.Equal(t, tt.status, ext["statusCode"])
		})
	}
}

func TestTranslate(t *testing.T) {
	typed := Forbidden("no")
	require.Same(t, typed, Translate(fmt.Errorf("wrapped: %w", typed), true))

	got := Translate(fmt.Errorf("insert: %w", &store.DuplicateError{Collection: "tags", Fields: []string{"slug"}}), true)
	require.Equal(t, KindConflict, got.Kind)
	require.Equal(t, "slug already exists", got.Message)

	got = Translate(fmt.Errorf("get: %w", store.ErrNotFound), true)
	require.Equal(t, KindNotFound, got.Kind)

	_, idErr := query.ParseID("nope", "novel ID")
	got = Translate(idErr, true)
	require.Equal(t, KindValidation, got.Kind)
	require.Contains(t, got.Message, "novel ID")

	require.Nil(t, Translate(nil, true))
}

func TestTranslateHidesInternalDetailInProduction(t *testing.T) {
	raw := errors.New("connection refused on 10.0.0.3")

	prod := Translate(raw, true)
	require.Equal(t, KindInternal, prod.Kind)
	require.Equal(t, "Internal server error", prod.Message)
	require.NotContains(t, prod.Extensions(), "detail")
	require.ErrorIs(t, prod, raw)

	dev := Translate(raw, false)
	require.Equal(t, "connection refused on 10.0.0.3", dev.Extensions()["detail"])
}

func TestIs(t *testing.T) {
	require.True(t, Is(fmt.Errorf("x: %w", Validation("v")), KindValidation))
	require.False(t, Is(Validation("v"), KindConflict))
	require.False(t, Is(errors.New("plain"), KindInternal))
}
