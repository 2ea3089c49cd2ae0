package tagging

import (
	"strings"

	"github.com/outofoffice3/tag-compliance/internal/shared"
)

// TagSnapshot maps tag key to tag value for one resource.
type TagSnapshot map[string]string

// known resource types whose service prefix can't be derived from the type name
var resourceTypeServices = map[string]string{
	"AWS::EC2::Instance":   "ec2",
	"AWS::S3::Bucket":      "s3",
	"AWS::RDS::DBInstance": "rds",
	"AWS::DynamoDB::Table": "dynamodb",
}

// ComputeMissingTags returns the keys of required that are absent from
// snapshot, in the order they appear in required.
func ComputeMissingTags(snapshot TagSnapshot, required []string) []string {
	missing := []string{}
	for _, key := range required {
		if _, ok := snapshot[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// ExtractOwnerEmail looks for the first owner tag key present on the
// resource and returns the first email address in its value. Only that key
// is inspected.
func ExtractOwnerEmail(snapshot TagSnapshot) (string, bool) {
	for _, key := range shared.OwnerTagKeys {
		value, ok := snapshot[key]
		if !ok {
			continue
		}
		return shared.FindEmail(value)
	}
	return "", false
}

// ResourceTypeToService maps a config resource type such as
// "AWS::EC2::Instance" to its service prefix. Unknown types fall back to
// the lowercased middle segment, which is a heuristic and does not hold
// for every service (e.g. "AWS::ElasticLoadBalancingV2::LoadBalancer").
func ResourceTypeToService(resourceType string) string {
	if service, ok := resourceTypeServices[resourceType]; ok {
		return service
	}
	segments := strings.Split(resourceType, shared.ResourceTypeNamespaceSeparator)
	if len(segments) < 2 {
		return strings.ToLower(resourceType)
	}
	return strings.ToLower(segments[1])
}

// ResourceToArn builds the arn of a config resource. S3 buckets are global
// and carry neither region nor account.
func ResourceToArn(resourceType, resourceId, region, accountId string) string {
	service := ResourceTypeToService(resourceType)
	if resourceType == shared.AwsS3Bucket {
		return "arn:aws:" + service + ":::" + resourceId
	}
	segments := strings.Split(resourceType, shared.ResourceTypeNamespaceSeparator)
	category := strings.ToLower(segments[len(segments)-1])
	return "arn:aws:" + service + ":" + region + ":" + accountId + ":" + category + "/" + resourceId
}
