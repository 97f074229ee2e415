package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/focale-app/focale/utils"
)

// LinkTokenService generates the opaque bearer tokens embedded in client
// portal URLs. Tokens carry no structure; everything is looked up server side.
type LinkTokenService interface {
	GenerateToken() (string, error)
}

// LinkTokenServiceImpl implements LinkTokenService
type LinkTokenServiceImpl struct {
	tokenBytes int
}

// NewLinkTokenService creates a new link token service
func NewLinkTokenService() LinkTokenService {
	return &LinkTokenServiceImpl{tokenBytes: utils.LinkTokenBytes}
}

// GenerateToken returns a URL-safe random token
func (s *LinkTokenServiceImpl) GenerateToken() (string, error) {
	buf := make([]byte, s.tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate link token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
