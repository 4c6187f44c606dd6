package worker

import (
	"context"

	"github.com/spec-kit/placement-studio/internal/service"
)

// StartAuditWorker registers the change feed handlers and starts webhook
// delivery in the background until ctx ends.
func StartAuditWorker(ctx context.Context, auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
	go auditService.Run(ctx)
}
