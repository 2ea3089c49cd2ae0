package shared

import "time"

const (
	EnvSourceParentId       EnvVar = "SOURCE_PARENT_ID"
	EnvTagComplianceOuId    EnvVar = "TAG_COMPLIANCE_OU_ID"
	EnvSnsTopicArn          EnvVar = "SNS_TOPIC_ARN"
	EnvSenderEmail          EnvVar = "SES_SENDER_EMAIL"
	EnvAccountId            EnvVar = "ACCOUNT_ID"
	EnvOrganizationsRoleArn EnvVar = "ORGANIZATIONS_ROLE_ARN"
	EnvAuditBucketName      EnvVar = "AUDIT_BUCKET_NAME"
	EnvAuditPrefix          EnvVar = "AUDIT_PREFIX"

	CreateAccountEventName         string = "CreateAccount"
	InviteAccountToOrgEventName    string = "InviteAccountToOrganization"
	AwsS3Bucket                    string = "AWS::S3::Bucket"
	DefaultAuditPrefix             string = "tag-compliance"
	UnknownFailureReason           string = "Unknown reason"
	NoActionRequiredResponseBody   string = "Event processed, no action required"
	ResourceTypeNamespaceSeparator string = "::"

	// account creation polling
	AccountCreationPollInterval    time.Duration = 5 * time.Second
	AccountCreationMaxPollAttempts int           = 10
)

// RequiredTags is the ordered set of tag keys every resource must carry.
var RequiredTags = []string{"Environment", "Layer", "Component", "Product"}

// OwnerTagKeys lists the tag keys that may hold an owner's email, highest
// priority first.
var OwnerTagKeys = []string{
	"Owner",
	"owner",
	"OWNER",
	"OwnerEmail",
	"ownerEmail",
	"owner_email",
	"owner-email",
	"Contact",
	"contact",
	"org:owner",
}

// TagVocabulary is the canonical set of values for each required tag.
var TagVocabulary = []TagValues{
	{Key: "Environment", Values: []string{"dev", "test", "staging", "prod"}},
	{Key: "Layer", Values: []string{"services", "data", "infrastructure", "security"}},
	{Key: "Component", Values: []string{"admin", "api", "ui", "db"}},
	{Key: "Product", Values: []string{"innovation", "core", "platform", "customer"}},
}

// TagExamples are the short examples quoted in the new-account notice.
var TagExamples = []TagValues{
	{Key: "Environment", Values: []string{"dev", "prod"}},
	{Key: "Layer", Values: []string{"services", "data"}},
	{Key: "Component", Values: []string{"admin", "api"}},
	{Key: "Product", Values: []string{"innovation", "core"}},
}
