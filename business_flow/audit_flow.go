package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/focale-app/focale/app/dto"
	"github.com/focale-app/focale/models"
	"github.com/focale-app/focale/repository"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// AuditFlow serves the photographer's view of the trail and the retention job
type AuditFlow interface {
	ListLogs(ctx context.Context, photographerID uint, query *dto.AuditLogQuery) (*dto.AuditLogListDTO, error)
	ExportLogsXLSX(ctx context.Context, photographerID uint, query *dto.AuditLogQuery) ([]byte, string, error)
	CleanupOldLogs(ctx context.Context, retentionYears int) (int64, error)
}

// AuditFlowImpl implements the audit business flow
type AuditFlowImpl struct {
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

// NewAuditFlow creates a new audit flow instance
func NewAuditFlow(auditRepo repository.AuditLogRepository, db *gorm.DB) AuditFlow {
	return &AuditFlowImpl{
		auditRepo: auditRepo,
		db:        db,
	}
}

// ListLogs returns a page of the photographer's trail, newest first
func (af *AuditFlowImpl) ListLogs(ctx context.Context, photographerID uint, query *dto.AuditLogQuery) (*dto.AuditLogListDTO, error) {
	query.Normalize()

	filter := models.AuditLogFilter{
		PhotographerID: &photographerID,
		Action:         query.Action,
		ClientLinkID:   query.ClientLinkID,
	}

	total, err := af.auditRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("AUDIT_LIST_FAILED", "Audit listing failed", err)
	}

	rows, err := af.auditRepo.ByFilter(ctx, filter, "", query.PageSize, query.Offset())
	if err != nil {
		return nil, NewBusinessError("AUDIT_LIST_FAILED", "Audit listing failed", err)
	}

	out := &dto.AuditLogListDTO{
		Items:    make([]dto.AuditLogDTO, 0, len(rows)),
		Total:    total,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	for _, row := range rows {
		out.Items = append(out.Items, toAuditLogDTO(row))
	}
	return out, nil
}

// ExportLogsXLSX writes the filtered trail to a spreadsheet. Pagination is
// ignored; the export always covers the full filtered range.
func (af *AuditFlowImpl) ExportLogsXLSX(ctx context.Context, photographerID uint, query *dto.AuditLogQuery) ([]byte, string, error) {
	filter := models.AuditLogFilter{
		PhotographerID: &photographerID,
		Action:         query.Action,
		ClientLinkID:   query.ClientLinkID,
	}

	rows, err := af.auditRepo.ByFilter(ctx, filter, "created_at ASC", 0, 0)
	if err != nil {
		return nil, "", NewBusinessError("AUDIT_EXPORT_FAILED", "Audit export failed", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []any{"Date", "Action", "Acteur", "Lien", "Entite", "Description", "Adresse IP", "Succes"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, "", NewBusinessError("AUDIT_EXPORT_FAILED", "Audit export failed", err)
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		values := []any{
			row.CreatedAt.Format("02/01/2006 15:04:05"),
			row.Action,
			row.ActorType,
			derefUint(row.ClientLinkID),
			derefString(row.EntityType),
			derefString(row.Description),
			derefString(row.IPAddress),
			row.Success != nil && *row.Success,
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, "", NewBusinessError("AUDIT_EXPORT_FAILED", "Audit export failed", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", NewBusinessError("AUDIT_EXPORT_FAILED", "Audit export failed", err)
	}

	filename := fmt.Sprintf("audit-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// CleanupOldLogs removes entries past the retention window. Legal proof
// entries for contract validation and signature are kept regardless of age.
// The cleanup itself leaves a trail entry with the removed count.
func (af *AuditFlowImpl) CleanupOldLogs(ctx context.Context, retentionYears int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(-retentionYears, 0, 0)
	preserved := []string{
		models.AuditActionContractValidated,
		models.AuditActionContractSigned,
	}

	var removed int64

	err := repository.WithTransaction(ctx, af.db, func(ctx context.Context) error {
		var err error
		removed, err = af.auditRepo.DeleteOlderThan(ctx, cutoff, preserved)
		if err != nil {
			return err
		}

		return logAudit(ctx, af.auditRepo, AuditEvent{
			Action:      models.AuditActionRetentionCleanup,
			ActorType:   models.ActorTypeSystem,
			Description: fmt.Sprintf("Retention cleanup removed %d entries older than %s", removed, cutoff.Format("2006-01-02")),
			Metadata: map[string]any{
				"removed": removed,
				"cutoff":  cutoff.Format(time.RFC3339),
			},
			Success: true,
		}, nil)
	})
	if err != nil {
		return 0, NewBusinessError("AUDIT_CLEANUP_FAILED", "Audit cleanup failed", err)
	}

	return removed, nil
}

func toAuditLogDTO(a *models.AuditLog) dto.AuditLogDTO {
	out := dto.AuditLogDTO{
		ID:           a.ID,
		Action:       a.Action,
		ActorType:    a.ActorType,
		ClientLinkID: a.ClientLinkID,
		EntityType:   a.EntityType,
		EntityID:     a.EntityID,
		Description:  a.Description,
		IPAddress:    a.IPAddress,
		Success:      a.Success,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
	if a.Metadata != nil {
		out.Metadata = map[string]any(a.Metadata)
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefUint(u *uint) any {
	if u == nil {
		return ""
	}
	return *u
}
