package tagcompliance

import (
	"context"
	"errors"
	"net/http"

	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/internal/errormgr"
	"github.com/outofoffice3/tag-compliance/internal/exporter"
	"github.com/outofoffice3/tag-compliance/internal/message"
	"github.com/outofoffice3/tag-compliance/internal/metricmgr"
	"github.com/outofoffice3/tag-compliance/internal/notify"
	"github.com/outofoffice3/tag-compliance/internal/shared"
	"github.com/outofoffice3/tag-compliance/internal/tagging"
)

// Notifier turns config rule compliance changes into notifications.
type Notifier interface {
	// process compliance event
	Process(ctx context.Context, cfg shared.Config, event shared.ComplianceEvent) (shared.Response, error)
	// get error mgr
	GetErrorMgr() errormgr.ErrorMgr
	// get metric mgr
	GetMetricMgr() metricmgr.MetricMgr
}

type _Notifier struct {
	tagDirectory tagging.TagDirectory
	broadcaster  notify.Broadcaster
	directSender notify.DirectSender
	exporter     exporter.Exporter
	callerId     string
	errorMgr     errormgr.ErrorMgr
	metricMgr    metricmgr.MetricMgr
	logger       logger.Logger
}

type NotifierInitConfig struct {
	TagDirectory tagging.TagDirectory
	Broadcaster  notify.Broadcaster
	// optional, owners are only emailed when set
	DirectSender notify.DirectSender
	// optional audit trail
	Exporter exporter.Exporter
	// account of the lambda's credentials, used in resource arns when
	// ACCOUNT_ID is not set
	CallerAccountId string
	ErrorMgr        errormgr.ErrorMgr
	MetricMgr       metricmgr.MetricMgr
	Logger          logger.Logger
}

func Init(config NotifierInitConfig) (Notifier, error) {
	if config.TagDirectory == nil || config.Broadcaster == nil {
		return nil, errors.New("tag directory or broadcaster is not set")
	}
	if config.ErrorMgr == nil {
		config.ErrorMgr = errormgr.NewErrorMgr()
	}
	if config.MetricMgr == nil {
		config.MetricMgr = metricmgr.Init()
	}
	if config.Logger == nil {
		config.Logger = logger.NewConsoleLogger(logger.LogLevelDebug)
	}
	return &_Notifier{
		tagDirectory: config.TagDirectory,
		broadcaster:  config.Broadcaster,
		directSender: config.DirectSender,
		exporter:     config.Exporter,
		callerId:     config.CallerAccountId,
		errorMgr:     config.ErrorMgr,
		metricMgr:    config.MetricMgr,
		logger:       config.Logger,
	}, nil
}

func (n *_Notifier) Process(ctx context.Context, cfg shared.Config, event shared.ComplianceEvent) (shared.Response, error) {
	sos := n.logger
	sos.Infof("compliance change for [%s] [%s] in account [%s] : [%s]", event.ResourceType, event.ResourceId, event.AccountId, event.ComplianceType())

	switch event.ComplianceType() {
	case configServiceTypes.ComplianceTypeNonCompliant:
		{
			return n.processNonCompliant(ctx, cfg, event)
		}
	case configServiceTypes.ComplianceTypeCompliant:
		{
			return n.processCompliant(ctx, event)
		}
	default:
		{
			sos.Debugf("no action required for compliance type [%s]", event.ComplianceType())
			n.addEntry(exporter.Entry{
				Outcome:      exporter.OutcomeNoAction,
				AccountId:    event.AccountId,
				ResourceType: event.ResourceType,
				ResourceId:   event.ResourceId,
			})
			return shared.Response{
				StatusCode: http.StatusOK,
				Body:       shared.NoActionRequiredResponseBody,
			}, nil
		}
	}
}

func (n *_Notifier) processNonCompliant(ctx context.Context, cfg shared.Config, event shared.ComplianceEvent) (shared.Response, error) {
	sos := n.logger
	arn := tagging.ResourceToArn(event.ResourceType, event.ResourceId, event.AwsRegion, n.resourceAccountId(cfg, event))
	sos.Debugf("resource arn : [%s]", arn)

	snapshot, ok := tagging.LookupTags(ctx, n.tagDirectory, event.AwsRegion, arn, n.errorMgr, sos)
	if !ok {
		n.metricMgr.IncrementMetric(metricmgr.TotalFailedTagLookups, 1)
	}
	missingTags := tagging.ComputeMissingTags(snapshot, shared.RequiredTags)
	n.metricMgr.IncrementMetric(metricmgr.TotalMissingTags, int32(len(missingTags)))
	sos.Infof("missing tags for [%s] : %v", arn, missingTags)

	ownerEmail, found := tagging.ExtractOwnerEmail(snapshot)
	if found {
		n.metricMgr.IncrementMetric(metricmgr.TotalOwnersResolved, 1)
		sos.Debugf("resource owner : [%s]", ownerEmail)
	}

	notification := message.NonCompliant(event, missingTags, ownerEmail)
	directSent := false
	if found && cfg.OwnerNotificationsEnabled() && n.directSender != nil {
		err := n.directSender.Send(ctx, ownerEmail, notification.Subject, notification.Body)
		if err != nil {
			sos.Errorf("error sending email to owner [%s] : [%v] code [%s]", ownerEmail, err, errormgr.APIErrorCode(err))
			n.metricMgr.IncrementMetric(metricmgr.TotalFailedDirectSends, 1)
			n.errorMgr.StoreError(errormgr.Error{
				Kind:        errormgr.DirectSendFailed,
				ResourceArn: arn,
				Message:     "failed to email resource owner " + ownerEmail,
				Err:         err,
			})
		} else {
			directSent = true
			n.metricMgr.IncrementMetric(metricmgr.TotalDirectSends, 1)
			sos.Infof("email sent to resource owner [%s]", ownerEmail)
		}
	}

	if err := n.publish(ctx, notification, event.AccountId, arn); err != nil {
		return shared.Response{}, err
	}

	n.addEntry(exporter.Entry{
		Outcome:      exporter.OutcomeNonCompliant,
		AccountId:    event.AccountId,
		ResourceType: event.ResourceType,
		ResourceId:   event.ResourceId,
		Arn:          arn,
		MissingTags:  missingTags,
		OwnerEmail:   ownerEmail,
		DirectSent:   directSent,
		ErrMsg:       n.errorMgr.Summary("; "),
	})
	return shared.Response{
		StatusCode: http.StatusOK,
		Body:       "Successfully sent notification for non-compliant resource " + event.ResourceId,
	}, nil
}

func (n *_Notifier) processCompliant(ctx context.Context, event shared.ComplianceEvent) (shared.Response, error) {
	notification := message.Compliant(event)
	if err := n.publish(ctx, notification, event.AccountId, ""); err != nil {
		return shared.Response{}, err
	}
	n.addEntry(exporter.Entry{
		Outcome:      exporter.OutcomeCompliant,
		AccountId:    event.AccountId,
		ResourceType: event.ResourceType,
		ResourceId:   event.ResourceId,
	})
	return shared.Response{
		StatusCode: http.StatusOK,
		Body:       "Successfully sent remediation notification for resource " + event.ResourceId,
	}, nil
}

func (n *_Notifier) publish(ctx context.Context, notification message.Notification, accountId string, arn string) error {
	err := n.broadcaster.Publish(ctx, notification.Subject, notification.Body)
	// return errors
	if err != nil {
		n.logger.Errorf("error publishing [%s] : [%v] code [%s]", notification.Subject, err, errormgr.APIErrorCode(err))
		n.metricMgr.IncrementMetric(metricmgr.TotalFailedBroadcasts, 1)
		return errormgr.Error{
			Kind:        errormgr.PublishFailed,
			AccountId:   accountId,
			ResourceArn: arn,
			Message:     "failed to publish notification",
			Err:         err,
		}
	}
	n.metricMgr.IncrementMetric(metricmgr.TotalBroadcasts, 1)
	n.logger.Infof("notification published [%s]", notification.Subject)
	return nil
}

// account owning the flagged resource: configured account, then the
// caller's account, then the account named by the event
func (n *_Notifier) resourceAccountId(cfg shared.Config, event shared.ComplianceEvent) string {
	if cfg.AccountId != "" {
		return cfg.AccountId
	}
	if n.callerId != "" {
		return n.callerId
	}
	return event.AccountId
}

func (n *_Notifier) addEntry(entry exporter.Entry) {
	if n.exporter == nil {
		return
	}
	entry.Handler = exporter.HandlerTagCompliance
	n.exporter.Add(entry)
}

func (n *_Notifier) GetErrorMgr() errormgr.ErrorMgr {
	return n.errorMgr
}

func (n *_Notifier) GetMetricMgr() metricmgr.MetricMgr {
	return n.metricMgr
}
