package exporter

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/outofoffice3/common/logger"
	"github.com/stretchr/testify/assert"
)

type fakeS3 struct {
	keys   []string
	bodies []string
	err    error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(params.Body)
	f.keys = append(f.keys, aws.ToString(params.Key))
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestExporter(t *testing.T) {
	assertion := assert.New(t)
	fixed := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	client := &fakeS3{}

	// ####################################
	// CREATE NEW EXPORTER
	// ####################################
	exp, err := Init(ExporterInitConfig{
		S3Client: client,
		Bucket:   "audit-bucket",
		Prefix:   "tag-compliance",
		Logger:   logger.NewConsoleLogger(logger.LogLevelDebug),
		Now:      func() time.Time { return fixed },
	})
	assertion.NoError(err)
	assertion.NotNil(exp)

	// nothing to export yet
	key, err := exp.ExportToS3(context.Background())
	assertion.Error(err)
	assertion.Empty(key)

	// ####################################
	// ADD TO EXPORTER
	// ####################################
	exp.Add(Entry{
		Handler:      HandlerTagCompliance,
		Outcome:      OutcomeNonCompliant,
		AccountId:    "123456789012",
		ResourceType: "AWS::EC2::Instance",
		ResourceId:   "i-0abc",
		Arn:          "arn:aws:ec2:us-east-1:123456789012:instance/i-0abc",
		MissingTags:  []string{"Environment", "Layer"},
		OwnerEmail:   "jane@example.com",
		DirectSent:   true,
	})
	exp.Add(Entry{
		Handler: HandlerAccountOnboarding,
		Outcome: OutcomeError,
		ErrMsg:  "[Timeout] timed out, waiting for account creation",
	})
	assertion.Equal(2, len(exp.GetEntries()))
	assertion.Equal(fixed, exp.GetEntries()[0].Timestamp)

	data, err := exp.WriteCSV()
	assertion.NoError(err)
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	assertion.NoError(err)
	assertion.Equal(3, len(records))
	assertion.Equal(header, records[0])
	assertion.Equal([]string{"2024-03-09T12:00:00Z", HandlerTagCompliance, "NON_COMPLIANT", "123456789012", "AWS::EC2::Instance", "i-0abc", "arn:aws:ec2:us-east-1:123456789012:instance/i-0abc", "Environment;Layer", "jane@example.com", "true", ""}, records[1])
	assertion.Equal("ERROR", records[2][2])
	assertion.Equal("false", records[2][9])

	// ####################################
	// EXPORT TO S3
	// ####################################
	key, err = exp.ExportToS3(context.Background())
	assertion.NoError(err)
	assertion.True(strings.HasPrefix(key, "tag-compliance/2024/03/09/"))
	assertion.True(strings.HasSuffix(key, ".csv"))
	assertion.Equal([]string{key}, client.keys)
	assertion.Equal(string(data), client.bodies[0])

	// ####################################
	// ERRORS VALIDATION
	// ####################################
	client.err = errors.New("AccessDenied")
	key, err = exp.ExportToS3(context.Background())
	assertion.Error(err)
	assertion.Empty(key)

	_, err = Init(ExporterInitConfig{S3Client: client})
	assertion.Error(err)
	_, err = Init(ExporterInitConfig{Bucket: "audit-bucket"})
	assertion.Error(err)
}
