package middleware

import (
	"log"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/gofiber/fiber/v3"
)

// LinkMiddleware resolves portal tokens for client-facing endpoints. The
// token carries all the authorization a client ever gets.
type LinkMiddleware struct {
	linkFlow businessflow.ClientLinkFlow
}

// NewLinkMiddleware creates a new link resolution middleware
func NewLinkMiddleware(linkFlow businessflow.ClientLinkFlow) *LinkMiddleware {
	return &LinkMiddleware{
		linkFlow: linkFlow,
	}
}

// ResolveLink validates the :token path parameter and stores the resolved
// link for downstream handlers. Every rejection, whatever its cause, is the
// same response: disclosing whether a token exists, was revoked or merely
// expired would let callers enumerate and distinguish links.
func (m *LinkMiddleware) ResolveLink() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Params("token")
		if token == "" {
			return linkRejected(c)
		}

		link, err := m.linkFlow.ResolveToken(c.Context(), token)
		if err != nil {
			// The reason stays internal, for metrics and logs only
			switch {
			case businessflow.IsLinkRevoked(err):
				recordTokenResolution("revoked")
			case businessflow.IsLinkExpired(err):
				recordTokenResolution("expired")
			case businessflow.IsLinkNotFound(err):
				recordTokenResolution("not_found")
			default:
				recordTokenResolution("not_found")
				log.Println("Link resolution failed", err)
			}
			return linkRejected(c)
		}

		recordTokenResolution("ok")
		c.Locals("client_link", link)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}

// linkRejected is the single response body for every failed token resolution
func linkRejected(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "Invalid or expired link",
		Error: dto.ErrorDetail{
			Code: dto.ErrorLinkNotFound,
		},
	})
}
