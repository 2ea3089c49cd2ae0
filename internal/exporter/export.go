package exporter

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/outofoffice3/common/logger"
	"github.com/outofoffice3/tag-compliance/internal/awsclientmgr"
)

type Outcome string

// Entry is one audit record of a handler invocation.
type Entry struct {
	Timestamp    time.Time
	Handler      string
	Outcome      Outcome
	AccountId    string
	ResourceType string
	ResourceId   string
	Arn          string
	MissingTags  []string
	OwnerEmail   string
	DirectSent   bool
	ErrMsg       string
}

type Exporter interface {
	// add entry
	Add(entry Entry)
	// get entries
	GetEntries() []Entry
	// render entries as csv
	WriteCSV() ([]byte, error)
	// export entries to s3, returns the object key
	ExportToS3(ctx context.Context) (string, error)
}

type _Exporter struct {
	mu       sync.Mutex
	s3Client awsclientmgr.S3API
	bucket   string
	prefix   string
	entries  []Entry
	now      func() time.Time
	logger   logger.Logger
}

type ExporterInitConfig struct {
	S3Client awsclientmgr.S3API
	Bucket   string
	Prefix   string
	Logger   logger.Logger
	// defaults to time.Now
	Now func() time.Time
}

func Init(config ExporterInitConfig) (Exporter, error) {
	if config.S3Client == nil || config.Bucket == "" {
		return nil, errors.New("s3 client or bucket is not set")
	}
	if config.Logger == nil {
		config.Logger = logger.NewConsoleLogger(logger.LogLevelDebug)
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &_Exporter{
		s3Client: config.S3Client,
		bucket:   config.Bucket,
		prefix:   config.Prefix,
		entries:  make([]Entry, 0),
		now:      config.Now,
		logger:   config.Logger,
	}, nil
}

// add entry
func (e *_Exporter) Add(entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = e.now()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
}

// get entries
func (e *_Exporter) GetEntries() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := make([]Entry, len(e.entries))
	copy(entries, e.entries)
	return entries
}

// write entries to csv
func (e *_Exporter) WriteCSV() ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	// Writing header
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, entry := range e.GetEntries() {
		record := []string{
			entry.Timestamp.UTC().Format(time.RFC3339),
			entry.Handler,
			string(entry.Outcome),
			entry.AccountId,
			entry.ResourceType,
			entry.ResourceId,
			entry.Arn,
			strings.Join(entry.MissingTags, ";"),
			entry.OwnerEmail,
			strconv.FormatBool(entry.DirectSent),
			entry.ErrMsg,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()

	// Check for errors from the CSV writer
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *_Exporter) ExportToS3(ctx context.Context) (string, error) {
	if len(e.GetEntries()) == 0 {
		return "", errors.New("no entries to export")
	}
	data, err := e.WriteCSV()
	// return errors
	if err != nil {
		return "", err
	}

	key := path.Join(e.prefix, e.now().UTC().Format("2006/01/02"), uuid.NewString()+".csv")
	_, err = e.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/csv"),
	})
	// return errors
	if err != nil {
		e.logger.Errorf("error uploading audit log to s3 : [%v]", err)
		return "", err
	}

	e.logger.Infof("audit log uploaded to [%s/%s]", e.bucket, key)
	return key, nil
}
