package main

import (
	"os"
	"path/filepath"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsconfig"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsevents"
	"github.com/aws/aws-cdk-go/awscdk/v2/awseventstargets"
	"github.com/aws/aws-cdk-go/awscdk/v2/awsiam"
	"github.com/aws/aws-cdk-go/awscdk/v2/awslambda"
	"github.com/aws/aws-cdk-go/awscdk/v2/awss3"
	"github.com/aws/aws-cdk-go/awscdk/v2/awssns"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

const (
	requiredTagsRuleName = "required-tags"
	defaultAssetDir      = "../../bin"
	defaultAuditPrefix   = "tag-compliance"
)

type DeploymentStackProps struct {
	awscdk.StackProps
	TagComplianceOuId string
	SourceParentId    string
	SenderEmail       string
	// directory holding the process-new-account and
	// tag-compliance-notification bootstrap builds
	AssetDir string
}

// withDefaults returns a copy of props with unset fields filled in
func withDefaults(props *DeploymentStackProps) DeploymentStackProps {
	var result DeploymentStackProps
	if props != nil {
		result = *props
	}
	if result.AssetDir == "" {
		result.AssetDir = defaultAssetDir
	}
	return result
}

func TagComplianceStack(scope constructs.Construct, id string, props *DeploymentStackProps) awscdk.Stack {
	p := withDefaults(props)
	stack := awscdk.NewStack(scope, &id, &p.StackProps)

	// managed rule flags resources missing any of the required tags
	awsconfig.NewManagedRule(stack, jsii.String("RequiredTagsRule"), &awsconfig.ManagedRuleProps{
		ConfigRuleName: jsii.String(requiredTagsRuleName),
		Description:    jsii.String("Checks that resources carry the Environment, Layer, Component and Product tags"),
		Identifier:     awsconfig.ManagedRuleIdentifiers_REQUIRED_TAGS(),
		InputParameters: &map[string]interface{}{
			"tag1Key": "Environment",
			"tag2Key": "Layer",
			"tag3Key": "Component",
			"tag4Key": "Product",
		},
	})

	topic := awssns.NewTopic(stack, jsii.String("TagComplianceTopic"), &awssns.TopicProps{
		DisplayName: jsii.String("Tag Compliance Notifications"),
	})

	// invocation outcomes are written here as csv
	auditBucket := awss3.NewBucket(stack, jsii.String("AuditBucket"), &awss3.BucketProps{
		BlockPublicAccess: awss3.BlockPublicAccess_BLOCK_ALL(),
		Encryption:        awss3.BucketEncryption_S3_MANAGED,
		EnforceSSL:        jsii.Bool(true),
	})

	newAccountFn := newFunction(stack, "ProcessNewAccount", filepath.Join(p.AssetDir, "process-new-account"), &map[string]*string{
		"SNS_TOPIC_ARN":        topic.TopicArn(),
		"TAG_COMPLIANCE_OU_ID": jsii.String(p.TagComplianceOuId),
		"SOURCE_PARENT_ID":     jsii.String(p.SourceParentId),
		"AUDIT_BUCKET_NAME":    auditBucket.BucketName(),
		"AUDIT_PREFIX":         jsii.String(defaultAuditPrefix),
	})
	topic.GrantPublish(newAccountFn)
	auditBucket.GrantPut(newAccountFn, jsii.String(defaultAuditPrefix+"/*"))
	newAccountFn.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions: jsii.Strings(
			"organizations:DescribeCreateAccountStatus",
			"organizations:MoveAccount",
			"organizations:ListRoots",
		),
		Resources: jsii.Strings("*"),
	}))

	notificationFn := newFunction(stack, "TagComplianceNotification", filepath.Join(p.AssetDir, "tag-compliance-notification"), &map[string]*string{
		"SNS_TOPIC_ARN":     topic.TopicArn(),
		"SES_SENDER_EMAIL":  jsii.String(p.SenderEmail),
		"ACCOUNT_ID":        stack.Account(),
		"AUDIT_BUCKET_NAME": auditBucket.BucketName(),
		"AUDIT_PREFIX":      jsii.String(defaultAuditPrefix),
	})
	topic.GrantPublish(notificationFn)
	auditBucket.GrantPut(notificationFn, jsii.String(defaultAuditPrefix+"/*"))
	notificationFn.AddToRolePolicy(awsiam.NewPolicyStatement(&awsiam.PolicyStatementProps{
		Actions:   jsii.Strings("tag:GetResources", "ses:SendEmail"),
		Resources: jsii.Strings("*"),
	}))

	awsevents.NewRule(stack, jsii.String("NewAccountRule"), &awsevents.RuleProps{
		Description: jsii.String("Routes new and invited organization accounts to the onboarding function"),
		EventPattern: &awsevents.EventPattern{
			Source:     jsii.Strings("aws.organizations"),
			DetailType: jsii.Strings("AWS API Call via CloudTrail"),
			Detail: &map[string]interface{}{
				"eventName": []string{"CreateAccount", "InviteAccountToOrganization"},
			},
		},
		Targets: &[]awsevents.IRuleTarget{awseventstargets.NewLambdaFunction(newAccountFn, nil)},
	})

	awsevents.NewRule(stack, jsii.String("ComplianceChangeRule"), &awsevents.RuleProps{
		Description: jsii.String("Routes required tags compliance changes to the notification function"),
		EventPattern: &awsevents.EventPattern{
			Source:     jsii.Strings("aws.config"),
			DetailType: jsii.Strings("Config Rules Compliance Change"),
			Detail: &map[string]interface{}{
				"configRuleName": []string{requiredTagsRuleName},
			},
		},
		Targets: &[]awsevents.IRuleTarget{awseventstargets.NewLambdaFunction(notificationFn, nil)},
	})

	awscdk.NewCfnOutput(stack, jsii.String("TopicArn"), &awscdk.CfnOutputProps{
		Value: topic.TopicArn(),
	})
	awscdk.NewCfnOutput(stack, jsii.String("AuditBucketName"), &awscdk.CfnOutputProps{
		Value: auditBucket.BucketName(),
	})
	return stack
}

// functions are built as linux bootstrap binaries under bin/
func newFunction(stack awscdk.Stack, id string, assetPath string, environment *map[string]*string) awslambda.Function {
	return awslambda.NewFunction(stack, jsii.String(id), &awslambda.FunctionProps{
		Runtime:      awslambda.Runtime_PROVIDED_AL2(),
		Architecture: awslambda.Architecture_ARM_64(),
		Handler:      jsii.String("bootstrap"),
		Code:         awslambda.Code_FromAsset(jsii.String(assetPath), nil),
		Timeout:      awscdk.Duration_Minutes(jsii.Number(2)),
		MemorySize:   jsii.Number(128),
		Environment:  environment,
	})
}

func main() {
	defer jsii.Close()

	app := awscdk.NewApp(nil)

	TagComplianceStack(app, "tag-compliance", &DeploymentStackProps{
		StackProps: awscdk.StackProps{
			Env: env(),
		},
		TagComplianceOuId: contextValue(app, "tagComplianceOuId"),
		SourceParentId:    contextValue(app, "sourceParentId"),
		SenderEmail:       contextValue(app, "senderEmail"),
	})

	app.Synth(nil)
}

func contextValue(app awscdk.App, key string) string {
	value, ok := app.Node().TryGetContext(jsii.String(key)).(string)
	if !ok {
		return ""
	}
	return value
}

func env() *awscdk.Environment {
	return &awscdk.Environment{
		Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
		Region:  jsii.String(os.Getenv("CDK_DEFAULT_REGION")),
	}
}
