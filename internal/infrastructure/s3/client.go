package s3infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/smarthome-panel/internal/config"
	"github.com/smarthome-panel/internal/domain"
	"github.com/smarthome-panel/internal/infrastructure/awsx"
)

// API is the subset of the S3 client used by Archive.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archive stores usage-log rows in S3 before they are removed from DynamoDB.
type Archive struct {
	client API
	bucket string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(cfg *config.Config) *s3.Client {
	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsx.LoadConfig(cfg), clientOpts...)
}

// NewArchive returns nil when no archive bucket is configured.
func NewArchive(cfg *config.Config) *Archive {
	if cfg.UsageLogArchiveBucket == "" {
		return nil
	}
	return NewArchiveWithClient(NewClient(cfg), cfg.UsageLogArchiveBucket)
}

func NewArchiveWithClient(client API, bucket string) *Archive {
	return &Archive{client: client, bucket: bucket}
}

// ArchiveUsageLogs uploads logs as a JSON array and returns the object URL.
func (a *Archive) ArchiveUsageLogs(ctx context.Context, username, start, end string, logs []domain.UsageLog) (string, error) {
	body, err := json.Marshal(logs)
	if err != nil {
		return "", fmt.Errorf("marshal usage logs: %w", err)
	}
	key := archiveKey(username, start, end)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", a.bucket, key), nil
}

// archiveKey builds usage-logs/<username>/<start>_<end>.json with colons
// removed so keys stay friendly to tooling that treats them as paths.
func archiveKey(username, start, end string) string {
	clean := strings.NewReplacer(":", "", "/", "-")
	return fmt.Sprintf("usage-logs/%s/%s_%s.json", clean.Replace(username), clean.Replace(start), clean.Replace(end))
}
