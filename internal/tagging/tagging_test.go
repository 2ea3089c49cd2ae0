package tagging

import (
	"testing"

	"github.com/outofoffice3/tag-compliance/internal/shared"
	"github.com/stretchr/testify/assert"
)

func TestComputeMissingTags(t *testing.T) {
	assertion := assert.New(t)
	required := shared.RequiredTags

	// empty snapshot: every required tag, in order
	assertion.Equal([]string{"Environment", "Layer", "Component", "Product"}, ComputeMissingTags(TagSnapshot{}, required))
	assertion.Equal(required, ComputeMissingTags(nil, required))

	// partial snapshot keeps required order
	snapshot := TagSnapshot{"Product": "core", "Layer": "data", "Team": "x"}
	assertion.Equal([]string{"Environment", "Component"}, ComputeMissingTags(snapshot, required))

	// fully compliant, empty values still count as present
	snapshot = TagSnapshot{"Environment": "", "Layer": "data", "Component": "api", "Product": "core", "Extra": "1"}
	assertion.Empty(ComputeMissingTags(snapshot, required))

	// keys are case sensitive
	snapshot = TagSnapshot{"environment": "dev", "Layer": "data", "Component": "api", "Product": "core"}
	assertion.Equal([]string{"Environment"}, ComputeMissingTags(snapshot, required))
}

func TestComputeMissingTagsIsOrderedSubsequence(t *testing.T) {
	assertion := assert.New(t)
	required := shared.RequiredTags

	// every subset of required as a snapshot
	for mask := 0; mask < 1<<len(required); mask++ {
		snapshot := TagSnapshot{}
		for i, key := range required {
			if mask&(1<<i) != 0 {
				snapshot[key] = "v"
			}
		}
		missing := ComputeMissingTags(snapshot, required)

		expected := []string{}
		for _, key := range required {
			if _, ok := snapshot[key]; !ok {
				expected = append(expected, key)
			}
		}
		assertion.Equal(expected, missing)
		assertion.Equal(mask == 1<<len(required)-1, len(missing) == 0)
	}
}

func TestExtractOwnerEmail(t *testing.T) {
	assertion := assert.New(t)

	// no candidate key
	email, ok := ExtractOwnerEmail(TagSnapshot{"Team": "x"})
	assertion.False(ok)
	assertion.Empty(email)

	email, ok = ExtractOwnerEmail(nil)
	assertion.False(ok)
	assertion.Empty(email)

	// email embedded in free text
	email, ok = ExtractOwnerEmail(TagSnapshot{"Owner": "contact jane.doe@example.com for help"})
	assertion.True(ok)
	assertion.Equal("jane.doe@example.com", email)

	// priority order
	email, ok = ExtractOwnerEmail(TagSnapshot{
		"contact":    "support@example.com",
		"OwnerEmail": "owner@example.com",
	})
	assertion.True(ok)
	assertion.Equal("owner@example.com", email)

	// namespaced key
	email, ok = ExtractOwnerEmail(TagSnapshot{"org:owner": "platform@example.com"})
	assertion.True(ok)
	assertion.Equal("platform@example.com", email)

	// first present key without an email stops the scan
	email, ok = ExtractOwnerEmail(TagSnapshot{
		"Owner":   "platform team",
		"contact": "support@example.com",
	})
	assertion.False(ok)
	assertion.Empty(email)

	// deterministic
	snapshot := TagSnapshot{"owner": "a@example.com", "OWNER": "b@example.com"}
	for i := 0; i < 10; i++ {
		email, ok = ExtractOwnerEmail(snapshot)
		assertion.True(ok)
		assertion.Equal("a@example.com", email)
	}
}

func TestResourceTypeToService(t *testing.T) {
	assertion := assert.New(t)
	assertion.Equal("ec2", ResourceTypeToService("AWS::EC2::Instance"))
	assertion.Equal("s3", ResourceTypeToService("AWS::S3::Bucket"))
	assertion.Equal("rds", ResourceTypeToService("AWS::RDS::DBInstance"))
	assertion.Equal("dynamodb", ResourceTypeToService("AWS::DynamoDB::Table"))

	// fallback to middle segment
	assertion.Equal("lambda", ResourceTypeToService("AWS::Lambda::Function"))
	assertion.Equal("storage", ResourceTypeToService("Service::Storage::Bucket"))
	assertion.Equal("unnamespaced", ResourceTypeToService("Unnamespaced"))
}

func TestResourceToArn(t *testing.T) {
	assertion := assert.New(t)

	// bucket arns have no region or account
	assertion.Equal("arn:aws:s3:::my-bucket", ResourceToArn("AWS::S3::Bucket", "my-bucket", "us-east-1", "123456789012"))

	assertion.Equal("arn:aws:ec2:r1:123:instance/i-0abc", ResourceToArn("AWS::EC2::Instance", "i-0abc", "r1", "123"))
	assertion.Equal("arn:aws:compute:r1:123:instance/i-0abc", ResourceToArn("Service::Compute::Instance", "i-0abc", "r1", "123"))
	assertion.Equal("arn:aws:rds:us-east-1:123456789012:dbinstance/db-1", ResourceToArn("AWS::RDS::DBInstance", "db-1", "us-east-1", "123456789012"))
}
