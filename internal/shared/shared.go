package shared

import (
	"encoding/json"
	"errors"
	"os"
	"strings"
)

// LoadConfig reads the handler configuration from the environment.
func LoadConfig() Config {
	cfg := Config{
		SourceParentId:       strings.TrimSpace(os.Getenv(string(EnvSourceParentId))),
		TagComplianceOuId:    strings.TrimSpace(os.Getenv(string(EnvTagComplianceOuId))),
		SnsTopicArn:          strings.TrimSpace(os.Getenv(string(EnvSnsTopicArn))),
		SenderEmail:          strings.TrimSpace(os.Getenv(string(EnvSenderEmail))),
		AccountId:            strings.TrimSpace(os.Getenv(string(EnvAccountId))),
		OrganizationsRoleArn: strings.TrimSpace(os.Getenv(string(EnvOrganizationsRoleArn))),
		AuditBucket:          strings.TrimSpace(os.Getenv(string(EnvAuditBucketName))),
		AuditPrefix:          strings.TrimSpace(os.Getenv(string(EnvAuditPrefix))),
	}
	if cfg.AuditPrefix == "" {
		cfg.AuditPrefix = DefaultAuditPrefix
	}
	return cfg
}

// OwnerNotificationsEnabled reports whether direct owner email is
// configured with a usable sender address.
func (c Config) OwnerNotificationsEnabled() bool {
	return IsValidEmail(c.SenderEmail)
}

// AuditEnabled reports whether invocation outcomes are exported to s3.
func (c Config) AuditEnabled() bool {
	return c.AuditBucket != ""
}

// ParseComplianceEvent decodes and validates a compliance change event detail.
func ParseComplianceEvent(detail json.RawMessage) (ComplianceEvent, error) {
	var event ComplianceEvent
	if len(detail) == 0 {
		return event, errors.New("event detail is empty")
	}
	if err := json.Unmarshal(detail, &event); err != nil {
		return event, errors.New("failed to unmarshal compliance event : [" + err.Error() + "]")
	}
	if err := ValidateComplianceEvent(event); err != nil {
		return event, err
	}
	return event, nil
}

// ParseAccountEvent decodes an organizations CloudTrail event detail into
// one of the supported account event kinds. Unknown event names yield an
// UnrecognizedAccountEvent rather than an error.
func ParseAccountEvent(detail json.RawMessage) (AccountEvent, error) {
	var orgDetail OrganizationsEventDetail
	if len(detail) == 0 {
		return AccountEvent{}, errors.New("event detail is empty")
	}
	if err := json.Unmarshal(detail, &orgDetail); err != nil {
		return AccountEvent{}, errors.New("failed to unmarshal organizations event : [" + err.Error() + "]")
	}

	event := AccountEvent{
		Kind:      UnrecognizedAccountEvent,
		EventName: orgDetail.EventName,
	}
	switch orgDetail.EventName {
	case CreateAccountEventName:
		{
			if orgDetail.ResponseElements == nil || orgDetail.ResponseElements.CreateAccountStatus == nil {
				return event, errors.New("missing required field [responseElements.createAccountStatus]")
			}
			event.Kind = CreateAccountEvent
			event.CreateAccountRequestId = orgDetail.ResponseElements.CreateAccountStatus.Id
		}
	case InviteAccountToOrgEventName:
		{
			if orgDetail.RequestParameters == nil || orgDetail.RequestParameters.Target == nil {
				return event, errors.New("missing required field [requestParameters.target]")
			}
			event.Kind = InviteAccountEvent
			event.TargetAccountId = orgDetail.RequestParameters.Target.Id
		}
	}
	return event, nil
}
