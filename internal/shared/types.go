package shared

import (
	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	orgTypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

type EnvVar string

type TagValues struct {
	Key    string
	Values []string
}

// Config is the environment-provided configuration for one invocation.
type Config struct {
	SourceParentId       string
	TagComplianceOuId    string
	SnsTopicArn          string
	SenderEmail          string
	AccountId            string
	OrganizationsRoleArn string
	AuditBucket          string
	AuditPrefix          string
}

// ComplianceEvent is the detail of an AWS Config "Config Rules Compliance Change" event.
type ComplianceEvent struct {
	AccountId           string              `json:"accountId"`
	ResourceType        string              `json:"resourceType"`
	ResourceId          string              `json:"resourceId"`
	AwsRegion           string              `json:"awsRegion"`
	ConfigRuleName      string              `json:"configRuleName"`
	NewEvaluationResult NewEvaluationResult `json:"newEvaluationResult"`
}

type NewEvaluationResult struct {
	ComplianceType configServiceTypes.ComplianceType `json:"complianceType"`
	Annotation     string                            `json:"annotation"`
}

// ComplianceType returns the evaluated compliance state of the resource.
func (e ComplianceEvent) ComplianceType() configServiceTypes.ComplianceType {
	return e.NewEvaluationResult.ComplianceType
}

type AccountEventKind int

const (
	UnrecognizedAccountEvent AccountEventKind = iota
	CreateAccountEvent
	InviteAccountEvent
)

func (k AccountEventKind) String() string {
	switch k {
	case CreateAccountEvent:
		return CreateAccountEventName
	case InviteAccountEvent:
		return InviteAccountToOrgEventName
	default:
		return "Unrecognized"
	}
}

// AccountEvent is the parsed form of an organizations CloudTrail event.
type AccountEvent struct {
	Kind                   AccountEventKind
	EventName              string
	CreateAccountRequestId string
	TargetAccountId        string
}

// AccountCreationStatus mirrors organizations DescribeCreateAccountStatus.
type AccountCreationStatus struct {
	State         orgTypes.CreateAccountState
	AccountId     string
	FailureReason string
}

// IsTerminal reports whether polling can stop.
func (s AccountCreationStatus) IsTerminal() bool {
	return s.State == orgTypes.CreateAccountStateSucceeded || s.State == orgTypes.CreateAccountStateFailed
}

// Response is the acknowledgment returned to the lambda runtime.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// cloudtrail detail shapes for organizations events
type OrganizationsEventDetail struct {
	EventName         string                `json:"eventName"`
	RequestParameters *OrgRequestParameters `json:"requestParameters"`
	ResponseElements  *OrgResponseElements  `json:"responseElements"`
}

type OrgRequestParameters struct {
	Target *OrgTarget `json:"target"`
}

type OrgTarget struct {
	Id   string `json:"id"`
	Type string `json:"type"`
}

type OrgResponseElements struct {
	CreateAccountStatus *OrgCreateAccountStatus `json:"createAccountStatus"`
}

type OrgCreateAccountStatus struct {
	Id    string `json:"id"`
	State string `json:"state"`
}
