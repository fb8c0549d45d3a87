package handlers

import (
	"bytes"
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	//go:embed legal/terms.md
	termsDocument []byte

	//go:embed legal/privacy.md
	privacyDocument []byte
)

// LegalHandler serves the documents a user must accept to register
type LegalHandler struct{}

// NewLegalHandler creates a new legal handler
func NewLegalHandler() *LegalHandler {
	return &LegalHandler{}
}

// Terms handles GET /terms
func (h *LegalHandler) Terms(c *gin.Context) {
	serveDocument(c, termsDocument)
}

// PrivacyPolicy handles GET /privacy-policy
func (h *LegalHandler) PrivacyPolicy(c *gin.Context) {
	serveDocument(c, privacyDocument)
}

// serveDocument answers markdown when asked for it, JSON otherwise.
// The title is the document's first heading.
func serveDocument(c *gin.Context, doc []byte) {
	if c.NegotiateFormat(gin.MIMEJSON, "text/markdown") == "text/markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", doc)
		return
	}

	title, _, _ := bytes.Cut(doc, []byte("\n"))
	c.JSON(http.StatusOK, gin.H{
		"title":   string(bytes.TrimPrefix(title, []byte("# "))),
		"content": string(doc),
	})
}
