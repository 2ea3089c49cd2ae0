package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/handle"
	"github.com/outofoffice3/tag-compliance/internal/awsclientmgr"
	"github.com/outofoffice3/tag-compliance/internal/exporter"
	"github.com/outofoffice3/tag-compliance/internal/metricmgr"
	"github.com/outofoffice3/tag-compliance/internal/notify"
	"github.com/outofoffice3/tag-compliance/internal/onboarding"
	"github.com/outofoffice3/tag-compliance/internal/shared"
)

var (
	sos       logger.Logger
	awsClient awsclientmgr.AWSClientMgr
)

func handler(ctx context.Context, event events.CloudWatchEvent) (shared.Response, error) {
	sos.Debugf("cloudwatch event [%+v]", event)
	cfg := shared.LoadConfig()
	sos.Debugf("tag compliance ou : [%s] source parent : [%s]", cfg.TagComplianceOuId, cfg.SourceParentId)

	orgClient, err := awsclientmgr.GetOrganizationsClient(awsClient)
	// return errors
	if err != nil {
		return shared.Response{}, err
	}
	snsClient, err := awsclientmgr.GetSNSClient(awsClient)
	// return errors
	if err != nil {
		return shared.Response{}, err
	}
	broadcaster := notify.NewSNSBroadcaster(snsClient, cfg.SnsTopicArn)

	onboarder, err := onboarding.Init(onboarding.OnboarderInitConfig{
		OrgClient:   orgClient,
		Broadcaster: broadcaster,
		MetricMgr:   metricmgr.Init(),
		Logger:      sos,
	})
	// return errors
	if err != nil {
		return shared.Response{}, err
	}

	return handle.HandleAccountEvent(ctx, event, cfg, handle.AccountEventDeps{
		Onboarder:   onboarder,
		Broadcaster: broadcaster,
		Exporter:    newExporter(cfg),
		Logger:      sos,
	})
}

// audit trail is optional, a missing bucket or client disables it
func newExporter(cfg shared.Config) exporter.Exporter {
	if !cfg.AuditEnabled() {
		return nil
	}
	s3Client, err := awsclientmgr.GetS3Client(awsClient)
	if err != nil {
		sos.Errorf("audit disabled : [%v]", err)
		return nil
	}
	exp, err := exporter.Init(exporter.ExporterInitConfig{
		S3Client: s3Client,
		Bucket:   cfg.AuditBucket,
		Prefix:   cfg.AuditPrefix,
		Logger:   sos,
	})
	if err != nil {
		sos.Errorf("audit disabled : [%v]", err)
		return nil
	}
	return exp
}

func main() {
	lambda.Start(handler)
}

func init() {
	sos = logger.NewConsoleLogger(logger.LogLevelDebug)
	sos.Infof("main init started")
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRetryMode(aws.RetryModeStandard))
	if err != nil {
		sos.Errorf("failed to load SDK config, %v", err)
		panic("failed to load sdk config")
	}
	sos.Infof("SDK config loaded, region [%s]", cfg.Region)

	awsClient, err = awsclientmgr.Init(awsclientmgr.AWSClientMgrInitConfig{
		Ctx:                  context.Background(),
		Cfg:                  cfg,
		Logger:               sos,
		OrganizationsRoleArn: shared.LoadConfig().OrganizationsRoleArn,
	})
	if err != nil {
		sos.Errorf("failed to init aws clients, %v", err)
		panic("failed to init aws clients")
	}
}
