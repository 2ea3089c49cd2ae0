package message

import (
	"fmt"
	"strings"

	"github.com/outofoffice3/tag-compliance/internal/shared"
	"github.com/outofoffice3/tag-compliance/internal/tagging"
)

const (
	NewAccountSubject      string = "New AWS Account Added to Tag Compliance OU"
	AccountErrorSubject    string = "Error Processing New AWS Account"
	ComplianceErrorSubject string = "Error Processing Tag Compliance Alert"
)

type Notification struct {
	Subject string
	Body    string
}

// NewAccount describes an account that was moved into the tag compliance OU.
func NewAccount(accountId string) Notification {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A new AWS account (%s) has been created and moved to the Tag Compliance OU.\n\n", accountId)
	sb.WriteString("This account is subject to tag compliance SCPs and will be monitored for proper tagging.\n\n")
	sb.WriteString("Required tags:\n")
	for _, example := range shared.TagExamples {
		fmt.Fprintf(&sb, "- %s (e.g., %s)\n", example.Key, quoteJoin(example.Values))
	}
	sb.WriteString("\nPlease ensure all resources are properly tagged according to organizational policy.\n")
	return Notification{Subject: NewAccountSubject, Body: sb.String()}
}

// AccountError reports a failure of the onboarding handler.
func AccountError(err error) Notification {
	return Notification{
		Subject: AccountErrorSubject,
		Body:    "An error occurred while processing a new AWS account: " + err.Error(),
	}
}

// ComplianceError reports a failure of the tag compliance notifier.
func ComplianceError(err error) Notification {
	return Notification{
		Subject: ComplianceErrorSubject,
		Body:    "An error occurred while processing a tag compliance alert: " + err.Error(),
	}
}

// NonCompliant describes a resource missing required tags, with the aws cli
// commands that add them. A non-empty ownerEmail is listed as the resource
// owner, whether or not the owner was emailed.
func NonCompliant(event shared.ComplianceEvent, missingTags []string, ownerEmail string) Notification {
	var sb strings.Builder
	fmt.Fprintf(&sb, "A non-compliant resource has been detected in AWS account %s:\n\n", event.AccountId)
	writeResource(&sb, event)
	if event.ConfigRuleName != "" {
		fmt.Fprintf(&sb, "Config Rule: %s\n", event.ConfigRuleName)
	}
	if event.NewEvaluationResult.Annotation != "" {
		fmt.Fprintf(&sb, "Annotation: %s\n", event.NewEvaluationResult.Annotation)
	}
	if ownerEmail != "" {
		fmt.Fprintf(&sb, "Resource Owner: %s\n", ownerEmail)
	}

	sb.WriteString("\nMissing Required Tags:\n")
	for _, tag := range missingTags {
		fmt.Fprintf(&sb, "- %s\n", tag)
	}

	sb.WriteString("\nAction Required:\n")
	sb.WriteString("Please add the missing tags to this resource. Until proper tagging is implemented,\n")
	sb.WriteString("this account is subject to tag compliance SCPs which may restrict certain operations.\n\n")

	if len(missingTags) > 0 {
		sb.WriteString("To add tags via AWS CLI:\n")
		sb.WriteString(CLICommand(event.ResourceType, event.ResourceId, missingTags))
		sb.WriteString("\n\n")
	}

	sb.WriteString("Required tag format:\n")
	for _, vocabulary := range shared.TagVocabulary {
		fmt.Fprintf(&sb, "- %s: %s\n", vocabulary.Key, strings.Join(vocabulary.Values, ", "))
	}
	sb.WriteString("\nFor assistance, please contact the Cloud Operations team.\n")

	return Notification{
		Subject: "Tag Compliance Alert: Non-Compliant Resource Detected in Account " + event.AccountId,
		Body:    sb.String(),
	}
}

// Compliant confirms that a previously flagged resource is now tagged.
func Compliant(event shared.ComplianceEvent) Notification {
	var sb strings.Builder
	sb.WriteString("A previously non-compliant resource is now properly tagged:\n\n")
	writeResource(&sb, event)
	fmt.Fprintf(&sb, "Account ID: %s\n\n", event.AccountId)
	sb.WriteString("All required tags are now present. Thank you for maintaining tag compliance!\n")
	return Notification{
		Subject: "Tag Compliance Resolved: Resource Now Compliant in Account " + event.AccountId,
		Body:    sb.String(),
	}
}

// CLICommand renders an aws cli command adding one placeholder value per
// missing tag.
func CLICommand(resourceType string, resourceId string, missingTags []string) string {
	lines := []string{
		fmt.Sprintf("aws %s add-tags-to-resource", tagging.ResourceTypeToService(resourceType)),
		fmt.Sprintf("    --resource-name %s", resourceId),
	}
	for _, tag := range missingTags {
		lines = append(lines, fmt.Sprintf("    --tags Key=%s,Value=YOUR_VALUE", tag))
	}
	return strings.Join(lines, " \\\n")
}

func writeResource(sb *strings.Builder, event shared.ComplianceEvent) {
	fmt.Fprintf(sb, "Resource Type: %s\n", event.ResourceType)
	fmt.Fprintf(sb, "Resource ID: %s\n", event.ResourceId)
	fmt.Fprintf(sb, "Region: %s\n", event.AwsRegion)
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
