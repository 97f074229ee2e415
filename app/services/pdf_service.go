package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// PDFRenderer turns contract text into a PDF document on disk. Rendering is
// an external concern; contract state transitions never wait on it.
type PDFRenderer interface {
	RenderContract(ctx context.Context, contractUUID, title, content string, signatures []SignatureBlock) (string, error)
}

// SignatureBlock is the rendered proof of one party's signature
type SignatureBlock struct {
	SignerName string
	SignerType string
	SignedAt   string
	ImageData  string // data URL
}

// WkhtmltopdfRenderer shells out to wkhtmltopdf
type WkhtmltopdfRenderer struct {
	binaryPath string
	outputDir  string
}

// NewWkhtmltopdfRenderer creates a renderer writing PDFs under outputDir
func NewWkhtmltopdfRenderer(binaryPath, outputDir string) PDFRenderer {
	if binaryPath == "" {
		binaryPath = "wkhtmltopdf"
	}
	return &WkhtmltopdfRenderer{
		binaryPath: binaryPath,
		outputDir:  outputDir,
	}
}

// RenderContract writes the contract HTML to a temp file and converts it
func (r *WkhtmltopdfRenderer) RenderContract(ctx context.Context, contractUUID, title, content string, signatures []SignatureBlock) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create pdf output dir: %w", err)
	}

	htmlFile, err := os.CreateTemp("", "contract-*.html")
	if err != nil {
		return "", fmt.Errorf("failed to create temp html: %w", err)
	}
	defer os.Remove(htmlFile.Name())

	if _, err := htmlFile.WriteString(buildContractHTML(title, content, signatures)); err != nil {
		htmlFile.Close()
		return "", fmt.Errorf("failed to write contract html: %w", err)
	}
	htmlFile.Close()

	outputPath := filepath.Join(r.outputDir, fmt.Sprintf("contract-%s.pdf", contractUUID))

	cmd := exec.CommandContext(ctx, r.binaryPath, "--quiet", "--encoding", "utf-8", htmlFile.Name(), outputPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("wkhtmltopdf failed: %w: %s", err, string(out))
	}

	return outputPath, nil
}

// buildContractHTML assembles the printable document. Contract content is
// plain text; paragraphs are split on blank lines.
func buildContractHTML(title, content string, signatures []SignatureBlock) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:Georgia,serif;margin:48px;line-height:1.6}")
	b.WriteString("h1{font-size:20px;text-align:center}")
	b.WriteString(".signature{margin-top:32px;border-top:1px solid #999;padding-top:12px}")
	b.WriteString(".signature img{max-height:80px}")
	b.WriteString("</style></head><body>")
	b.WriteString("<h1>" + html.EscapeString(title) + "</h1>")

	for _, para := range strings.Split(content, "\n\n") {
		b.WriteString("<p>" + strings.ReplaceAll(html.EscapeString(para), "\n", "<br>") + "</p>")
	}

	for _, sig := range signatures {
		b.WriteString("<div class=\"signature\">")
		b.WriteString("<p>" + html.EscapeString(sig.SignerName) + " (" + html.EscapeString(sig.SignerType) + ") - " + html.EscapeString(sig.SignedAt) + "</p>")
		if sig.ImageData != "" {
			b.WriteString("<img src=\"" + sig.ImageData + "\" alt=\"signature\">")
		}
		b.WriteString("</div>")
	}

	b.WriteString("</body></html>")
	return b.String()
}

// MockPDFRenderer records render calls without producing files, for tests
type MockPDFRenderer struct {
	Rendered []string
}

func NewMockPDFRenderer() *MockPDFRenderer {
	return &MockPDFRenderer{}
}

func (r *MockPDFRenderer) RenderContract(ctx context.Context, contractUUID, title, content string, signatures []SignatureBlock) (string, error) {
	r.Rendered = append(r.Rendered, contractUUID)
	log.Printf("PDF rendered for contract %s (%d signatures)", contractUUID, len(signatures))
	return "/tmp/contract-" + contractUUID + ".pdf", nil
}
