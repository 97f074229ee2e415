package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/focale-app/focale/app/dto"
	businessflow "github.com/focale-app/focale/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubContractFlow serves canned contract DTOs; only GetContract is reached
// by the download handler.
type stubContractFlow struct {
	businessflow.ContractFlow
	contract *dto.ContractDTO
	err      error
}

func (s *stubContractFlow) GetContract(ctx context.Context, photographerID, linkID uint) (*dto.ContractDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.contract, nil
}

func contractPDFApp(flow businessflow.ContractFlow) *fiber.App {
	handler := NewContractHandler(flow)
	app := fiber.New()
	app.Get("/links/:id/contract/pdf", func(c fiber.Ctx) error {
		c.Locals("photographer_id", uint(1))
		return handler.DownloadContractPDF(c)
	})
	return app
}

func TestDownloadContractPDF(t *testing.T) {
	dir := t.TempDir()

	signedPath := filepath.Join(dir, "signed.pdf")
	require.NoError(t, os.WriteFile(signedPath, []byte("%PDF-1.4 signed"), 0o644))
	draftPath := filepath.Join(dir, "draft.pdf")
	require.NoError(t, os.WriteFile(draftPath, []byte("%PDF-1.4 draft"), 0o644))

	contract := &dto.ContractDTO{
		UUID:          "0b54ad11-9d37-4b66-a3a1-3c1f6f8f2a10",
		Status:        "signed",
		DraftPDFPath:  &draftPath,
		SignedPDFPath: &signedPath,
	}

	t.Run("signed version is the default", func(t *testing.T) {
		app := contractPDFApp(&stubContractFlow{contract: contract})

		resp, err := app.Test(httptest.NewRequest("GET", "/links/7/contract/pdf", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "%PDF-1.4 signed", string(body))
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	})

	t.Run("draft version by query", func(t *testing.T) {
		app := contractPDFApp(&stubContractFlow{contract: contract})

		resp, err := app.Test(httptest.NewRequest("GET", "/links/7/contract/pdf?version=draft", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "%PDF-1.4 draft", string(body))
	})

	t.Run("unknown version is rejected", func(t *testing.T) {
		app := contractPDFApp(&stubContractFlow{contract: contract})

		resp, err := app.Test(httptest.NewRequest("GET", "/links/7/contract/pdf?version=original", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("document not rendered yet", func(t *testing.T) {
		pending := &dto.ContractDTO{UUID: contract.UUID, Status: "pending_signature"}
		app := contractPDFApp(&stubContractFlow{contract: pending})

		resp, err := app.Test(httptest.NewRequest("GET", "/links/7/contract/pdf", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing contract", func(t *testing.T) {
		app := contractPDFApp(&stubContractFlow{err: businessflow.ErrContractNotFound})

		resp, err := app.Test(httptest.NewRequest("GET", "/links/7/contract/pdf", nil))
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
