package awsclientmgr

type AWSServiceName string

const (
	ORGANIZATIONS AWSServiceName = "Organizations"
	TAGGING       AWSServiceName = "ResourceGroupsTaggingAPI"
	SNS           AWSServiceName = "SNS"
	SES           AWSServiceName = "SESv2"
	S3            AWSServiceName = "S3"
	STS           AWSServiceName = "STS"

	organizationsSessionName string = "tag-compliance-organizations"
)
