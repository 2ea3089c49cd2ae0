package handle

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/internal/errormgr"
	"github.com/outofoffice3/tag-compliance/internal/exporter"
	"github.com/outofoffice3/tag-compliance/internal/message"
	"github.com/outofoffice3/tag-compliance/internal/metricmgr"
	"github.com/outofoffice3/tag-compliance/internal/notify"
	"github.com/outofoffice3/tag-compliance/internal/onboarding"
	"github.com/outofoffice3/tag-compliance/internal/shared"
)

type AccountEventDeps struct {
	Onboarder   onboarding.Onboarder
	Broadcaster notify.Broadcaster
	// optional
	Exporter exporter.Exporter
	Logger   logger.Logger
}

// HandleAccountEvent moves the account named by an organizations event
// into the tag compliance OU. Any failure is broadcast as an error
// notification and returned.
func HandleAccountEvent(ctx context.Context, event events.CloudWatchEvent, cfg shared.Config, deps AccountEventDeps) (shared.Response, error) {
	sos := deps.Logger
	metrics := deps.Onboarder.GetMetricMgr()
	metrics.IncrementMetric(metricmgr.TotalEvents, 1)
	sos.Debugf("event id [%s] detail type [%s]", event.ID, event.DetailType)

	entry := exporter.Entry{
		Handler: exporter.HandlerAccountOnboarding,
		Outcome: exporter.OutcomeAccountMoved,
	}
	accountId, err := processAccountEvent(ctx, event, cfg, deps)
	entry.AccountId = accountId
	if err != nil {
		sos.Errorf("error processing account event : [%v]", err)
		metrics.IncrementMetric(metricmgr.TotalFailedEvents, 1)
		notifyFailure(ctx, deps.Broadcaster, message.AccountError(err), sos)
		entry.Outcome = exporter.OutcomeError
		entry.ErrMsg = err.Error()
	}
	if deps.Exporter != nil {
		deps.Exporter.Add(entry)
	}
	exportAudit(ctx, deps.Exporter, sos)
	sos.Infof("metrics [%s]", metrics.String())

	// return errors
	if err != nil {
		return shared.Response{}, err
	}
	return shared.Response{
		StatusCode: http.StatusOK,
		Body:       "Successfully processed new account " + accountId,
	}, nil
}

func processAccountEvent(ctx context.Context, event events.CloudWatchEvent, cfg shared.Config, deps AccountEventDeps) (string, error) {
	accountEvent, err := shared.ParseAccountEvent(event.Detail)
	// return errors
	if err != nil {
		return "", errormgr.Wrap(errormgr.MalformedEvent, "invalid organizations event", err)
	}
	deps.Logger.Debugf("account event [%+v]", accountEvent)
	return deps.Onboarder.Process(ctx, cfg, accountEvent)
}
