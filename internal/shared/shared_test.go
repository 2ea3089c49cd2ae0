package shared

import (
	"encoding/json"
	"testing"

	configServiceTypes "github.com/aws/aws-sdk-go-v2/service/configservice/types"
	orgTypes "github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	assertion := assert.New(t)
	t.Setenv(string(EnvSourceParentId), "")
	t.Setenv(string(EnvTagComplianceOuId), "ou-abcd-12345678")
	t.Setenv(string(EnvSnsTopicArn), "arn:aws:sns:us-east-1:123456789012:tag-compliance")
	t.Setenv(string(EnvSenderEmail), " cloudops@example.com ")
	t.Setenv(string(EnvAccountId), "123456789012")
	t.Setenv(string(EnvAuditBucketName), "")
	t.Setenv(string(EnvAuditPrefix), "")

	cfg := LoadConfig()
	assertion.Equal("", cfg.SourceParentId)
	assertion.Equal("ou-abcd-12345678", cfg.TagComplianceOuId)
	assertion.Equal("cloudops@example.com", cfg.SenderEmail)
	assertion.Equal(DefaultAuditPrefix, cfg.AuditPrefix)
	assertion.True(cfg.OwnerNotificationsEnabled())
	assertion.False(cfg.AuditEnabled())

	t.Setenv(string(EnvSenderEmail), "")
	t.Setenv(string(EnvAuditBucketName), "audit-bucket")
	cfg = LoadConfig()
	assertion.False(cfg.OwnerNotificationsEnabled())
	assertion.True(cfg.AuditEnabled())

	// malformed sender leaves direct email off
	for _, sender := range []string{"cloudops", "Cloud Ops <cloudops@example.com>", "cloudops@example"} {
		t.Setenv(string(EnvSenderEmail), sender)
		cfg = LoadConfig()
		assertion.False(cfg.OwnerNotificationsEnabled(), sender)
	}
}

func TestParseComplianceEvent(t *testing.T) {
	assertion := assert.New(t)

	detail := json.RawMessage(`{
		"accountId": "123456789012",
		"resourceType": "AWS::EC2::Instance",
		"resourceId": "i-0abc",
		"awsRegion": "us-east-1",
		"configRuleName": "required-tags",
		"newEvaluationResult": {"complianceType": "NON_COMPLIANT", "annotation": "missing tags"}
	}`)
	event, err := ParseComplianceEvent(detail)
	assertion.NoError(err)
	assertion.Equal("123456789012", event.AccountId)
	assertion.Equal("AWS::EC2::Instance", event.ResourceType)
	assertion.Equal("i-0abc", event.ResourceId)
	assertion.Equal("us-east-1", event.AwsRegion)
	assertion.Equal("required-tags", event.ConfigRuleName)
	assertion.Equal(configServiceTypes.ComplianceTypeNonCompliant, event.ComplianceType())
	assertion.Equal("missing tags", event.NewEvaluationResult.Annotation)

	// missing fields
	_, err = ParseComplianceEvent(json.RawMessage(`{"accountId": "123456789012", "resourceType": "AWS::EC2::Instance"}`))
	assertion.Error(err)
	assertion.Contains(err.Error(), "resourceId")
	assertion.Contains(err.Error(), "awsRegion")
	assertion.Contains(err.Error(), "newEvaluationResult.complianceType")

	// invalid json
	_, err = ParseComplianceEvent(json.RawMessage(`{not json`))
	assertion.Error(err)

	// empty detail
	_, err = ParseComplianceEvent(nil)
	assertion.Error(err)
}

func TestParseAccountEvent(t *testing.T) {
	assertion := assert.New(t)

	// create account
	event, err := ParseAccountEvent(json.RawMessage(`{
		"eventName": "CreateAccount",
		"responseElements": {"createAccountStatus": {"id": "car-0123456789abcdef", "state": "IN_PROGRESS"}}
	}`))
	assertion.NoError(err)
	assertion.Equal(CreateAccountEvent, event.Kind)
	assertion.Equal("car-0123456789abcdef", event.CreateAccountRequestId)
	assertion.Empty(event.TargetAccountId)

	// invite account
	event, err = ParseAccountEvent(json.RawMessage(`{
		"eventName": "InviteAccountToOrganization",
		"requestParameters": {"target": {"id": "210987654321", "type": "ACCOUNT"}}
	}`))
	assertion.NoError(err)
	assertion.Equal(InviteAccountEvent, event.Kind)
	assertion.Equal("210987654321", event.TargetAccountId)

	// unrecognized event
	event, err = ParseAccountEvent(json.RawMessage(`{"eventName": "LeaveOrganization"}`))
	assertion.NoError(err)
	assertion.Equal(UnrecognizedAccountEvent, event.Kind)
	assertion.Equal("LeaveOrganization", event.EventName)
	assertion.Equal("Unrecognized", event.Kind.String())

	// missing nested fields
	_, err = ParseAccountEvent(json.RawMessage(`{"eventName": "CreateAccount"}`))
	assertion.Error(err)
	_, err = ParseAccountEvent(json.RawMessage(`{"eventName": "InviteAccountToOrganization", "requestParameters": {}}`))
	assertion.Error(err)
	_, err = ParseAccountEvent(json.RawMessage(`[]`))
	assertion.Error(err)
}

func TestAccountCreationStatusIsTerminal(t *testing.T) {
	assertion := assert.New(t)
	assertion.False(AccountCreationStatus{State: orgTypes.CreateAccountStateInProgress}.IsTerminal())
	assertion.True(AccountCreationStatus{State: orgTypes.CreateAccountStateSucceeded}.IsTerminal())
	assertion.True(AccountCreationStatus{State: orgTypes.CreateAccountStateFailed}.IsTerminal())
}
