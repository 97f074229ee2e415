package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/focale-app/focale/models"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLinkFlow satisfies ClientLinkFlow for resolution tests; only
// ResolveToken is ever reached.
type stubLinkFlow struct {
	businessflow.ClientLinkFlow
	err error
}

func (s *stubLinkFlow) ResolveToken(ctx context.Context, token string) (*models.ClientLink, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.ClientLink{ID: 1, Token: token}, nil
}

func portalApp(flow businessflow.ClientLinkFlow) *fiber.App {
	app := fiber.New()
	app.Get("/portal/:token", NewLinkMiddleware(flow).ResolveLink(), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestResolveLinkRejectionsAreUniform(t *testing.T) {
	// Revoked, expired, unknown and broken lookups must be byte-for-byte
	// indistinguishable from outside, or tokens become enumerable.
	failures := []struct {
		name string
		err  error
	}{
		{name: "unknown token", err: businessflow.ErrLinkNotFound},
		{name: "revoked token", err: businessflow.ErrLinkRevoked},
		{name: "expired token", err: businessflow.ErrLinkExpired},
		{name: "lookup failure", err: errors.New("connection refused")},
	}

	var statuses []int
	var bodies []string

	for _, failure := range failures {
		t.Run(failure.name, func(t *testing.T) {
			app := portalApp(&stubLinkFlow{err: failure.err})

			resp, err := app.Test(httptest.NewRequest("GET", "/portal/sometoken", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			statuses = append(statuses, resp.StatusCode)
			bodies = append(bodies, string(body))
		})
	}

	require.Len(t, statuses, len(failures))
	for i := range failures {
		assert.Equal(t, fiber.StatusNotFound, statuses[i])
		assert.Equal(t, bodies[0], bodies[i])
	}
}

func TestResolveLinkSuccess(t *testing.T) {
	app := portalApp(&stubLinkFlow{})

	resp, err := app.Test(httptest.NewRequest("GET", "/portal/sometoken", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}
