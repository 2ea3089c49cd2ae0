package onboarding

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	orgTypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/internal/awsclientmgr"
	"github.com/outofoffice3/tag-compliance/internal/errormgr"
	"github.com/outofoffice3/tag-compliance/internal/message"
	"github.com/outofoffice3/tag-compliance/internal/metricmgr"
	"github.com/outofoffice3/tag-compliance/internal/notify"
	"github.com/outofoffice3/tag-compliance/internal/shared"
)

// Onboarder moves new organization accounts into the tag compliance OU.
type Onboarder interface {
	// resolve the account id of event, move it and announce it
	Process(ctx context.Context, cfg shared.Config, event shared.AccountEvent) (string, error)
	// poll a create account request until it reaches a terminal state
	WaitForAccountCreation(ctx context.Context, requestId string) (shared.AccountCreationStatus, error)
	// get metric mgr
	GetMetricMgr() metricmgr.MetricMgr
}

type _Onboarder struct {
	orgClient       awsclientmgr.OrganizationsAPI
	broadcaster     notify.Broadcaster
	metricMgr       metricmgr.MetricMgr
	logger          logger.Logger
	pollInterval    time.Duration
	maxPollAttempts int
	sleep           func(ctx context.Context, d time.Duration) error
}

type OnboarderInitConfig struct {
	OrgClient   awsclientmgr.OrganizationsAPI
	Broadcaster notify.Broadcaster
	MetricMgr   metricmgr.MetricMgr
	Logger      logger.Logger
	// zero values use shared.AccountCreationPollInterval and
	// shared.AccountCreationMaxPollAttempts
	PollInterval    time.Duration
	MaxPollAttempts int
	// defaults to a timer that stops early when ctx is done
	Sleep func(ctx context.Context, d time.Duration) error
}

func Init(config OnboarderInitConfig) (Onboarder, error) {
	if config.OrgClient == nil || config.Broadcaster == nil {
		return nil, errors.New("organizations client or broadcaster is not set")
	}
	if config.MetricMgr == nil {
		config.MetricMgr = metricmgr.Init()
	}
	if config.Logger == nil {
		config.Logger = logger.NewConsoleLogger(logger.LogLevelDebug)
	}
	if config.PollInterval <= 0 {
		config.PollInterval = shared.AccountCreationPollInterval
	}
	if config.MaxPollAttempts <= 0 {
		config.MaxPollAttempts = shared.AccountCreationMaxPollAttempts
	}
	if config.Sleep == nil {
		config.Sleep = sleepWithContext
	}
	return &_Onboarder{
		orgClient:       config.OrgClient,
		broadcaster:     config.Broadcaster,
		metricMgr:       config.MetricMgr,
		logger:          config.Logger,
		pollInterval:    config.PollInterval,
		maxPollAttempts: config.MaxPollAttempts,
		sleep:           config.Sleep,
	}, nil
}

func (o *_Onboarder) Process(ctx context.Context, cfg shared.Config, event shared.AccountEvent) (string, error) {
	sos := o.logger
	accountId, err := o.resolveAccountId(ctx, event)
	// return errors
	if err != nil {
		return "", err
	}
	sos.Infof("resolved account id [%s] from [%s] event", accountId, event.Kind)

	if err := validateParents(cfg, accountId); err != nil {
		return "", err
	}
	sourceParentId := cfg.SourceParentId
	if sourceParentId == "" {
		sourceParentId, err = o.getOrganizationRootId(ctx)
		// return errors
		if err != nil {
			return "", err
		}
	}

	sos.Infof("moving account [%s] from [%s] to [%s]", accountId, sourceParentId, cfg.TagComplianceOuId)
	_, err = o.orgClient.MoveAccount(ctx, &organizations.MoveAccountInput{
		AccountId:           aws.String(accountId),
		SourceParentId:      aws.String(sourceParentId),
		DestinationParentId: aws.String(cfg.TagComplianceOuId),
	})
	// return errors
	if err != nil {
		sos.Errorf("error moving account [%s] : [%v] code [%s]", accountId, err, errormgr.APIErrorCode(err))
		return "", errormgr.Error{
			Kind:      errormgr.RelocationFailed,
			AccountId: accountId,
			Message:   "failed to move account " + accountId,
			Err:       err,
		}
	}
	o.metricMgr.IncrementMetric(metricmgr.TotalAccountsMoved, 1)

	notification := message.NewAccount(accountId)
	if err := o.broadcaster.Publish(ctx, notification.Subject, notification.Body); err != nil {
		o.metricMgr.IncrementMetric(metricmgr.TotalFailedBroadcasts, 1)
		return "", errormgr.Error{
			Kind:      errormgr.PublishFailed,
			AccountId: accountId,
			Message:   "failed to publish new account notification",
			Err:       err,
		}
	}
	o.metricMgr.IncrementMetric(metricmgr.TotalBroadcasts, 1)
	return accountId, nil
}

func (o *_Onboarder) resolveAccountId(ctx context.Context, event shared.AccountEvent) (string, error) {
	var accountId string
	switch event.Kind {
	case shared.CreateAccountEvent:
		{
			if event.CreateAccountRequestId == "" {
				return "", errormgr.New(errormgr.UnresolvedAccount, "create account event has no request id")
			}
			status, err := o.WaitForAccountCreation(ctx, event.CreateAccountRequestId)
			// return errors
			if err != nil {
				return "", err
			}
			accountId = status.AccountId
		}
	case shared.InviteAccountEvent:
		{
			accountId = event.TargetAccountId
		}
	default:
		{
			return "", errormgr.New(errormgr.UnresolvedAccount, "unrecognized event ["+event.EventName+"]")
		}
	}
	if accountId == "" {
		return "", errormgr.New(errormgr.UnresolvedAccount, "could not determine account id from event")
	}
	// invitations by email carry the address, not an account id
	if !shared.IsValidAccountId(accountId) {
		return "", errormgr.New(errormgr.UnresolvedAccount, "invalid account id ["+accountId+"]")
	}
	return accountId, nil
}

// validate source and destination parents before any move
func validateParents(cfg shared.Config, accountId string) error {
	if cfg.TagComplianceOuId == "" {
		return errormgr.Error{
			Kind:      errormgr.RelocationFailed,
			AccountId: accountId,
			Message:   "destination OU is not configured, set [" + string(shared.EnvTagComplianceOuId) + "]",
		}
	}
	if !shared.IsValidParentId(cfg.TagComplianceOuId) {
		return errormgr.Error{
			Kind:      errormgr.RelocationFailed,
			AccountId: accountId,
			Message:   "invalid destination OU [" + cfg.TagComplianceOuId + "] in [" + string(shared.EnvTagComplianceOuId) + "]",
		}
	}
	if cfg.SourceParentId != "" && !shared.IsValidParentId(cfg.SourceParentId) {
		return errormgr.Error{
			Kind:      errormgr.RelocationFailed,
			AccountId: accountId,
			Message:   "invalid source parent [" + cfg.SourceParentId + "] in [" + string(shared.EnvSourceParentId) + "]",
		}
	}
	return nil
}

func (o *_Onboarder) WaitForAccountCreation(ctx context.Context, requestId string) (shared.AccountCreationStatus, error) {
	sos := o.logger
	for attempt := 1; attempt <= o.maxPollAttempts; attempt++ {
		o.metricMgr.IncrementMetric(metricmgr.TotalPollAttempts, 1)
		output, err := o.orgClient.DescribeCreateAccountStatus(ctx, &organizations.DescribeCreateAccountStatusInput{
			CreateAccountRequestId: aws.String(requestId),
		})
		// return errors
		if err != nil {
			return shared.AccountCreationStatus{}, errormgr.Wrap(errormgr.UnresolvedAccount, "failed to describe create account status ["+requestId+"]", err)
		}

		status := toAccountCreationStatus(output.CreateAccountStatus)
		sos.Debugf("create account request [%s] attempt [%d] state [%s]", requestId, attempt, status.State)
		if status.IsTerminal() {
			if status.State == orgTypes.CreateAccountStateFailed {
				reason := status.FailureReason
				if reason == "" {
					reason = shared.UnknownFailureReason
				}
				return status, errormgr.Error{
					Kind:      errormgr.CreationFailed,
					AccountId: status.AccountId,
					Message:   "account creation failed: " + reason,
				}
			}
			return status, nil
		}

		if attempt == o.maxPollAttempts {
			break
		}
		if err := o.sleep(ctx, o.pollInterval); err != nil {
			return status, errormgr.Wrap(errormgr.Timeout, "stopped waiting for account creation", err)
		}
	}
	return shared.AccountCreationStatus{}, errormgr.New(errormgr.Timeout, "timed out waiting for account creation to complete after "+strconv.Itoa(o.maxPollAttempts)+" attempts")
}

// get organization root id if source parent not specified
func (o *_Onboarder) getOrganizationRootId(ctx context.Context) (string, error) {
	output, err := o.orgClient.ListRoots(ctx, &organizations.ListRootsInput{})
	// return errors
	if err != nil {
		return "", errormgr.Wrap(errormgr.UnresolvedAccount, "failed to list organization roots", err)
	}
	if len(output.Roots) == 0 || aws.ToString(output.Roots[0].Id) == "" {
		return "", errormgr.New(errormgr.UnresolvedAccount, "organization has no root")
	}
	return aws.ToString(output.Roots[0].Id), nil
}

func (o *_Onboarder) GetMetricMgr() metricmgr.MetricMgr {
	return o.metricMgr
}

func toAccountCreationStatus(status *orgTypes.CreateAccountStatus) shared.AccountCreationStatus {
	if status == nil {
		return shared.AccountCreationStatus{State: orgTypes.CreateAccountStateInProgress}
	}
	result := shared.AccountCreationStatus{
		State:     status.State,
		AccountId: aws.ToString(status.AccountId),
	}
	if status.FailureReason != "" {
		result.FailureReason = string(status.FailureReason)
	}
	return result
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
