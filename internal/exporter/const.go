package exporter

const (
	TIMESTAMP     string = "Timestamp"
	HANDLER       string = "Handler"
	OUTCOME       string = "Outcome"
	ACCOUNT_ID    string = "AccountId"
	RESOURCE_TYPE string = "ResourceType"
	RESOURCE_ID   string = "ResourceId"
	ARN           string = "Arn"
	MISSING_TAGS  string = "MissingTags"
	OWNER_EMAIL   string = "OwnerEmail"
	DIRECT_SENT   string = "DirectSent"
	ERR_MSG       string = "ErrMsg"

	OutcomeNonCompliant Outcome = "NON_COMPLIANT"
	OutcomeCompliant    Outcome = "COMPLIANT"
	OutcomeNoAction     Outcome = "NO_ACTION"
	OutcomeAccountMoved Outcome = "ACCOUNT_MOVED"
	OutcomeError        Outcome = "ERROR"

	HandlerAccountOnboarding string = "process-new-account"
	HandlerTagCompliance     string = "tag-compliance-notification"
)

var header = []string{TIMESTAMP, HANDLER, OUTCOME, ACCOUNT_ID, RESOURCE_TYPE, RESOURCE_ID, ARN, MISSING_TAGS, OWNER_EMAIL, DIRECT_SENT, ERR_MSG}
