package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3API is the subset of the S3 client used to check export destinations
type S3API interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// ErrBucketNotFound is returned when the export destination bucket does not exist
var ErrBucketNotFound = errors.New("bucket not found")

// BucketChecker verifies that export destination buckets are reachable
type BucketChecker struct {
	client S3API
}

// NewBucketChecker creates a bucket checker
func NewBucketChecker(client S3API) *BucketChecker {
	return &BucketChecker{client: client}
}

// CheckBucket returns nil when the bucket exists and the caller may access it
func (c *BucketChecker) CheckBucket(ctx context.Context, bucket string) error {
	bucket = strings.TrimSpace(bucket)

	_, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchBucket") {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}
		return fmt.Errorf("failed to check S3 bucket %s: %w", bucket, err)
	}

	return nil
}

// S3URI returns the s3:// location an export will be written to
func S3URI(bucket, prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fmt.Sprintf("s3://%s/", bucket)
	}
	return fmt.Sprintf("s3://%s/%s/", bucket, prefix)
}
