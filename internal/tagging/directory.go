package tagging

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/internal/awsclientmgr"
	"github.com/outofoffice3/tag-compliance/internal/errormgr"
)

// TagDirectory reads the current tags of a resource.
type TagDirectory interface {
	GetTagsForResource(ctx context.Context, region string, arn string) (TagSnapshot, error)
}

type _TagDirectory struct {
	awsClientMgr awsclientmgr.AWSClientMgr
}

func NewTagDirectory(awscm awsclientmgr.AWSClientMgr) TagDirectory {
	return &_TagDirectory{
		awsClientMgr: awscm,
	}
}

// GetTagsForResource returns the tags of arn. A resource unknown to the
// tagging api, or one without tags, yields an empty snapshot.
func (d *_TagDirectory) GetTagsForResource(ctx context.Context, region string, arn string) (TagSnapshot, error) {
	client, err := d.awsClientMgr.GetTaggingClient(region)
	// return errors
	if err != nil {
		return nil, err
	}
	output, err := client.GetResources(ctx, &resourcegroupstaggingapi.GetResourcesInput{
		ResourceARNList: []string{arn},
	})
	// return errors
	if err != nil {
		return nil, err
	}

	snapshot := TagSnapshot{}
	if len(output.ResourceTagMappingList) == 0 {
		return snapshot, nil
	}
	for _, tag := range output.ResourceTagMappingList[0].Tags {
		snapshot[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return snapshot, nil
}

// LookupTags reads the tags of arn and treats any failure as a resource
// with no tags, so every required tag is reported missing. The failure is
// stored in em.
func LookupTags(ctx context.Context, directory TagDirectory, region string, arn string, em errormgr.ErrorMgr, sos logger.Logger) (TagSnapshot, bool) {
	snapshot, err := directory.GetTagsForResource(ctx, region, arn)
	if err != nil {
		sos.Errorf("error getting resource tags for [%s] : [%v] code [%s]", arn, err, errormgr.APIErrorCode(err))
		em.StoreError(errormgr.Error{
			Kind:        errormgr.LookupFailed,
			ResourceArn: arn,
			Message:     "failed to get resource tags",
			Err:         err,
		})
		return TagSnapshot{}, false
	}
	return snapshot, true
}
