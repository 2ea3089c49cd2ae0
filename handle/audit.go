package handle

import (
	"context"

	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/internal/exporter"
	"github.com/outofoffice3/tag-compliance/internal/message"
	"github.com/outofoffice3/tag-compliance/internal/notify"
)

// exportAudit uploads the invocation's audit entries, if any. Failures are
// only logged.
func exportAudit(ctx context.Context, exp exporter.Exporter, sos logger.Logger) {
	if exp == nil || len(exp.GetEntries()) == 0 {
		return
	}
	key, err := exp.ExportToS3(ctx)
	if err != nil {
		sos.Errorf("error exporting audit log : [%v]", err)
		return
	}
	sos.Debugf("audit log key : [%s]", key)
}

// notifyFailure broadcasts an error notification. Failures are only logged.
func notifyFailure(ctx context.Context, broadcaster notify.Broadcaster, notification message.Notification, sos logger.Logger) {
	if broadcaster == nil {
		return
	}
	if err := broadcaster.Publish(ctx, notification.Subject, notification.Body); err != nil {
		sos.Errorf("error publishing error notification : [%v]", err)
	}
}
