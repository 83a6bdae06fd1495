package backend_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aussiebroadwan/tenantboard/internal/onboarding/backend"
	"github.com/stretchr/testify/require"
)

func TestMessageOf(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("create request: %w", &backend.Error{Status: 409, Message: "tenant already exists"})
	require.Equal(t, "tenant already exists", backend.MessageOf(wrapped, "generic"))
	require.Equal(t, "generic", backend.MessageOf(errors.New("dial tcp: refused"), "generic"))
	require.Equal(t, "generic", backend.MessageOf(&backend.Error{Status: 500}, "generic"))
}

func TestErrorIsNotFound(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, &backend.Error{Status: 404, Message: "missing"}, backend.ErrNotFound)
	require.NotErrorIs(t, &backend.Error{Status: 400}, backend.ErrNotFound)
	require.Contains(t, (&backend.Error{Status: 400, Code: "BAD", Message: "x"}).Error(), "400 BAD")
}
