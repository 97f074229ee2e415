package businessflow

import (
	"context"

	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/focale-app/focale/utils"
	"gorm.io/datatypes"
)

// AuditEvent describes one entry to append to the trail
type AuditEvent struct {
	PhotographerID *uint
	ClientLinkID   *uint
	Action         string
	ActorType      string
	EntityType     *string
	EntityID       *uint
	Description    string
	Metadata       map[string]any
	Success        bool
	ErrorMessage   *string
}

// logAudit appends an entry to the audit trail. When the context carries a
// transaction the entry commits or rolls back with the state change it
// describes.
func logAudit(ctx context.Context, auditRepo repository.AuditLogRepository, event AuditEvent, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		PhotographerID: event.PhotographerID,
		ClientLinkID:   event.ClientLinkID,
		Action:         event.Action,
		ActorType:      event.ActorType,
		EntityType:     event.EntityType,
		EntityID:       event.EntityID,
		Description:    &event.Description,
		Success:        utils.ToPtr(event.Success),
		IPAddress:      &ipAddress,
		UserAgent:      &userAgent,
		ErrorMessage:   event.ErrorMessage,
	}

	if event.Metadata != nil {
		audit.Metadata = datatypes.JSONMap(event.Metadata)
	}

	requestID := ctx.Value(RequestIDKey)
	if requestID != nil {
		requestIDStr, ok := requestID.(string)
		if ok {
			audit.RequestID = &requestIDStr
		}
	}

	return auditRepo.Save(ctx, audit)
}
