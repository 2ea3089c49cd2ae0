package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/aws-cdk-go/awscdk/v2/assertions"
	"github.com/aws/jsii-runtime-go"
	"github.com/stretchr/testify/assert"
)

// bootstrap placeholders so the lambda assets can be staged
func assetDir(t *testing.T) string {
	dir := t.TempDir()
	for _, name := range []string{"process-new-account", "tag-compliance-notification"} {
		fnDir := filepath.Join(dir, name)
		assert.NoError(t, os.MkdirAll(fnDir, 0o755))
		assert.NoError(t, os.WriteFile(filepath.Join(fnDir, "bootstrap"), []byte("#!/bin/sh\n"), 0o755))
	}
	return dir
}

func TestWithDefaults(t *testing.T) {
	assertion := assert.New(t)

	props := withDefaults(nil)
	assertion.Equal(defaultAssetDir, props.AssetDir)
	assertion.Equal("", props.TagComplianceOuId)

	props = withDefaults(&DeploymentStackProps{TagComplianceOuId: "ou-ab12-tagcompl1", AssetDir: "dist"})
	assertion.Equal("dist", props.AssetDir)
	assertion.Equal("ou-ab12-tagcompl1", props.TagComplianceOuId)
}

func TestTagComplianceStack(t *testing.T) {
	app := awscdk.NewApp(nil)
	stack := TagComplianceStack(app, "tag-compliance-test", &DeploymentStackProps{
		TagComplianceOuId: "ou-ab12-tagcompl1",
		SenderEmail:       "governance@example.com",
		AssetDir:          assetDir(t),
	})
	template := assertions.Template_FromStack(stack, nil)

	template.ResourceCountIs(jsii.String("AWS::Lambda::Function"), jsii.Number(2))
	template.ResourceCountIs(jsii.String("AWS::S3::Bucket"), jsii.Number(1))
	template.ResourceCountIs(jsii.String("AWS::Events::Rule"), jsii.Number(2))
	template.HasResourceProperties(jsii.String("AWS::Config::ConfigRule"), map[string]interface{}{
		"ConfigRuleName": requiredTagsRuleName,
		"Source": map[string]interface{}{
			"Owner":            "AWS",
			"SourceIdentifier": "REQUIRED_TAGS",
		},
	})

	// both functions can write the audit trail
	template.AllResourcesProperties(jsii.String("AWS::Lambda::Function"), map[string]interface{}{
		"Environment": map[string]interface{}{
			"Variables": assertions.Match_ObjectLike(&map[string]interface{}{
				"AUDIT_BUCKET_NAME": assertions.Match_AnyValue(),
				"AUDIT_PREFIX":      defaultAuditPrefix,
			}),
		},
	})
	template.HasResourceProperties(jsii.String("AWS::IAM::Policy"), map[string]interface{}{
		"PolicyDocument": map[string]interface{}{
			"Statement": assertions.Match_ArrayWith(&[]interface{}{
				assertions.Match_ObjectLike(&map[string]interface{}{
					"Action": assertions.Match_ArrayWith(&[]interface{}{"s3:PutObject"}),
				}),
			}),
		},
	})
}
