package handle

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/internal/errormgr"
	"github.com/outofoffice3/tag-compliance/internal/exporter"
	"github.com/outofoffice3/tag-compliance/internal/message"
	"github.com/outofoffice3/tag-compliance/internal/metricmgr"
	"github.com/outofoffice3/tag-compliance/internal/notify"
	"github.com/outofoffice3/tag-compliance/internal/shared"
	"github.com/outofoffice3/tag-compliance/internal/tagcompliance"
)

type ConfigEventDeps struct {
	Notifier    tagcompliance.Notifier
	Broadcaster notify.Broadcaster
	// optional
	Exporter exporter.Exporter
	Logger   logger.Logger
}

// HandleConfigEvent processes one config rule compliance change. Any
// failure is broadcast as an error notification and returned.
func HandleConfigEvent(ctx context.Context, event events.CloudWatchEvent, cfg shared.Config, deps ConfigEventDeps) (shared.Response, error) {
	sos := deps.Logger
	metrics := deps.Notifier.GetMetricMgr()
	metrics.IncrementMetric(metricmgr.TotalEvents, 1)
	sos.Debugf("event id [%s] detail type [%s]", event.ID, event.DetailType)

	resp, err := processConfigEvent(ctx, event, cfg, deps)
	if err != nil {
		sos.Errorf("error processing compliance event : [%v]", err)
		metrics.IncrementMetric(metricmgr.TotalFailedEvents, 1)
		notifyFailure(ctx, deps.Broadcaster, message.ComplianceError(err), sos)
		if deps.Exporter != nil {
			deps.Exporter.Add(exporter.Entry{
				Handler: exporter.HandlerTagCompliance,
				Outcome: exporter.OutcomeError,
				ErrMsg:  err.Error(),
			})
		}
	}
	for _, storedErr := range deps.Notifier.GetErrorMgr().GetErrors() {
		sos.Errorf("non fatal error : [%v]", storedErr)
	}
	exportAudit(ctx, deps.Exporter, sos)
	sos.Infof("metrics [%s]", metrics.String())
	return resp, err
}

func processConfigEvent(ctx context.Context, event events.CloudWatchEvent, cfg shared.Config, deps ConfigEventDeps) (shared.Response, error) {
	complianceEvent, err := shared.ParseComplianceEvent(event.Detail)
	// return errors
	if err != nil {
		return shared.Response{}, errormgr.Wrap(errormgr.MalformedEvent, "invalid compliance event", err)
	}
	deps.Logger.Debugf("compliance event [%+v]", complianceEvent)
	return deps.Notifier.Process(ctx, cfg, complianceEvent)
}
