package tagging

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi/types"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/internal/awsclientmgr"
	"github.com/outofoffice3/tag-compliance/internal/errormgr"
	"github.com/stretchr/testify/assert"
)

type fakeTagging struct {
	output *resourcegroupstaggingapi.GetResourcesOutput
	err    error
	calls  []*resourcegroupstaggingapi.GetResourcesInput
}

func (f *fakeTagging) GetResources(ctx context.Context, params *resourcegroupstaggingapi.GetResourcesInput, optFns ...func(*resourcegroupstaggingapi.Options)) (*resourcegroupstaggingapi.GetResourcesOutput, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func newTestDirectory(client *fakeTagging) TagDirectory {
	sos := logger.NewConsoleLogger(logger.LogLevelDebug)
	return NewTagDirectory(awsclientmgr.NewAWSClientMgr(sos, func(region string) awsclientmgr.TaggingAPI {
		return client
	}))
}

func TestGetTagsForResource(t *testing.T) {
	assertion := assert.New(t)
	arn := "arn:aws:ec2:us-east-1:123456789012:instance/i-0abc"
	client := &fakeTagging{
		output: &resourcegroupstaggingapi.GetResourcesOutput{
			ResourceTagMappingList: []types.ResourceTagMapping{
				{
					ResourceARN: aws.String(arn),
					Tags: []types.Tag{
						{Key: aws.String("Environment"), Value: aws.String("dev")},
						{Key: aws.String("Owner"), Value: aws.String("jane@example.com")},
					},
				},
			},
		},
	}
	directory := newTestDirectory(client)

	snapshot, err := directory.GetTagsForResource(context.Background(), "us-east-1", arn)
	assertion.NoError(err)
	assertion.Equal(TagSnapshot{"Environment": "dev", "Owner": "jane@example.com"}, snapshot)
	assertion.Equal(1, len(client.calls))
	assertion.Equal([]string{arn}, client.calls[0].ResourceARNList)

	// unknown resource
	client.output = &resourcegroupstaggingapi.GetResourcesOutput{}
	snapshot, err = directory.GetTagsForResource(context.Background(), "us-east-1", arn)
	assertion.NoError(err)
	assertion.Empty(snapshot)
}

func TestLookupTagsFailOpen(t *testing.T) {
	assertion := assert.New(t)
	sos := logger.NewConsoleLogger(logger.LogLevelDebug)
	em := errormgr.NewErrorMgr()
	arn := "arn:aws:ec2:us-east-1:123456789012:instance/i-0abc"

	client := &fakeTagging{err: errors.New("dial tcp: i/o timeout")}
	snapshot, ok := LookupTags(context.Background(), newTestDirectory(client), "us-east-1", arn, em, sos)
	assertion.False(ok)
	assertion.NotNil(snapshot)
	assertion.Empty(snapshot)

	errs := em.GetErrors()
	assertion.Equal(1, len(errs))
	assertion.True(errormgr.IsKind(errs[0], errormgr.LookupFailed))

	// success leaves error mgr untouched
	client.err = nil
	client.output = &resourcegroupstaggingapi.GetResourcesOutput{}
	_, ok = LookupTags(context.Background(), newTestDirectory(client), "us-east-1", arn, em, sos)
	assertion.True(ok)
	assertion.Equal(1, len(em.GetErrors()))
}
