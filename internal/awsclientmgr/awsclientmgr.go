package awsclientmgr

import (
	"context"
	"errors"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/resourcegroupstaggingapi"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/outofoffice3/common/logger"
)

type AWSClientMgr interface {
	// set aws sdk client
	SetSDKClient(name AWSServiceName, client interface{}) error
	// get aws sdk client
	GetSDKClient(name AWSServiceName) (interface{}, bool)
	// get tagging client for region, created on first use
	GetTaggingClient(region string) (TaggingAPI, error)
	// get account id of the lambda's credentials
	GetCallerAccountId() string
}

type _AWSClientMgr struct {
	mu               sync.RWMutex
	clients          map[AWSServiceName]interface{}
	taggingClients   map[string]TaggingAPI
	newTaggingClient func(region string) TaggingAPI
	callerAccountId  string
	logger           logger.Logger
}

type AWSClientMgrInitConfig struct {
	Ctx    context.Context
	Cfg    aws.Config
	Logger logger.Logger
	// role assumed for organizations calls when the lambda does not run
	// in the management account
	OrganizationsRoleArn string
}

// Init builds every sdk client the handlers need and verifies the
// credentials with sts:GetCallerIdentity.
func Init(pkgConfig AWSClientMgrInitConfig) (AWSClientMgr, error) {
	sos := pkgConfig.Logger
	sos.Infof("init aws client mgr")
	sdkConfig := pkgConfig.Cfg.Copy()

	awsclient := NewAWSClientMgr(sos, func(region string) TaggingAPI {
		return resourcegroupstaggingapi.NewFromConfig(sdkConfig, func(o *resourcegroupstaggingapi.Options) {
			o.Region = region
		})
	})

	stsClient := sts.NewFromConfig(sdkConfig)
	identity, err := stsClient.GetCallerIdentity(pkgConfig.Ctx, &sts.GetCallerIdentityInput{})
	// return errors
	if err != nil {
		sos.Errorf("error verifying credentials : [%v]", err)
		return nil, errors.New("error verifying credentials : [" + err.Error() + "]")
	}
	awsclient.(*_AWSClientMgr).callerAccountId = aws.ToString(identity.Account)
	sos.Infof("caller account id [%s]", aws.ToString(identity.Account))

	orgConfig := sdkConfig.Copy()
	if pkgConfig.OrganizationsRoleArn != "" {
		sos.Infof("assuming role [%s] for organizations", pkgConfig.OrganizationsRoleArn)
		creds := stscreds.NewAssumeRoleProvider(stsClient, pkgConfig.OrganizationsRoleArn, func(o *stscreds.AssumeRoleOptions) {
			o.RoleSessionName = organizationsSessionName
		})
		orgConfig.Credentials = aws.NewCredentialsCache(creds)
	}

	clients := map[AWSServiceName]interface{}{
		STS:           stsClient,
		ORGANIZATIONS: organizations.NewFromConfig(orgConfig),
		SNS:           sns.NewFromConfig(sdkConfig),
		SES:           sesv2.NewFromConfig(sdkConfig),
		S3:            s3.NewFromConfig(sdkConfig),
	}
	for name, client := range clients {
		if err := awsclient.SetSDKClient(name, client); err != nil {
			return nil, errors.New("error loading sdk clients : [" + err.Error() + "]")
		}
	}

	sos.Infof("sdk clients loaded successfully")
	return awsclient, nil
}

// NewAWSClientMgr returns an empty client manager. newTaggingClient is
// used to build a tagging client the first time a region is requested.
func NewAWSClientMgr(sos logger.Logger, newTaggingClient func(region string) TaggingAPI) AWSClientMgr {
	return &_AWSClientMgr{
		clients:          make(map[AWSServiceName]interface{}),
		taggingClients:   make(map[string]TaggingAPI),
		newTaggingClient: newTaggingClient,
		logger:           sos,
	}
}

// set aws sdk client
func (a *_AWSClientMgr) SetSDKClient(serviceName AWSServiceName, client interface{}) error {
	a.logger.Debugf("setting [%s] client", serviceName)
	if client == nil {
		return errors.New("client is nil")
	}
	var ok bool
	switch serviceName {
	case ORGANIZATIONS:
		_, ok = client.(OrganizationsAPI)
	case TAGGING:
		_, ok = client.(TaggingAPI)
	case SNS:
		_, ok = client.(SNSAPI)
	case SES:
		_, ok = client.(SESAPI)
	case S3:
		_, ok = client.(S3API)
	case STS:
		_, ok = client.(STSAPI)
	default:
		return errors.New("invalid service name [" + string(serviceName) + "]")
	}
	if !ok {
		return errors.New("client does not implement the [" + string(serviceName) + "] api")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.clients[serviceName] = client
	return nil
}

// get aws sdk client
func (a *_AWSClientMgr) GetSDKClient(serviceName AWSServiceName) (interface{}, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	client, ok := a.clients[serviceName]
	return client, ok
}

// get tagging client for region. A client registered with SetSDKClient
// under TAGGING serves every region.
func (a *_AWSClientMgr) GetTaggingClient(region string) (TaggingAPI, error) {
	if client, ok := a.GetSDKClient(TAGGING); ok {
		return client.(TaggingAPI), nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if client, ok := a.taggingClients[region]; ok {
		return client, nil
	}
	if a.newTaggingClient == nil {
		return nil, errors.New("no tagging client available for region [" + region + "]")
	}
	a.logger.Debugf("creating tagging client for region [%s]", region)
	client := a.newTaggingClient(region)
	a.taggingClients[region] = client
	return client, nil
}

func (a *_AWSClientMgr) GetCallerAccountId() string {
	return a.callerAccountId
}

// GetOrganizationsClient returns the organizations client held by awscm.
func GetOrganizationsClient(awscm AWSClientMgr) (OrganizationsAPI, error) {
	client, ok := awscm.GetSDKClient(ORGANIZATIONS)
	if !ok {
		return nil, errors.New("failed to get organizations client")
	}
	return client.(OrganizationsAPI), nil
}

// GetSNSClient returns the sns client held by awscm.
func GetSNSClient(awscm AWSClientMgr) (SNSAPI, error) {
	client, ok := awscm.GetSDKClient(SNS)
	if !ok {
		return nil, errors.New("failed to get sns client")
	}
	return client.(SNSAPI), nil
}

// GetSESClient returns the sesv2 client held by awscm.
func GetSESClient(awscm AWSClientMgr) (SESAPI, error) {
	client, ok := awscm.GetSDKClient(SES)
	if !ok {
		return nil, errors.New("failed to get ses client")
	}
	return client.(SESAPI), nil
}

// GetS3Client returns the s3 client held by awscm.
func GetS3Client(awscm AWSClientMgr) (S3API, error) {
	client, ok := awscm.GetSDKClient(S3)
	if !ok {
		return nil, errors.New("failed to get s3 client")
	}
	return client.(S3API), nil
}
