package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBucketChecker_CheckBucket(t *testing.T) {
	client := &mockS3{}
	client.On("HeadBucket", mock.Anything, &s3.HeadBucketInput{Bucket: aws.String("my-bucket")}).
		Return(&s3.HeadBucketOutput{}, nil)

	assert.NoError(t, NewBucketChecker(client).CheckBucket(context.Background(), " my-bucket "))
	client.AssertExpectations(t)
}

func TestBucketChecker_NotFound(t *testing.T) {
	client := &mockS3{}
	client.On("HeadBucket", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"})

	err := NewBucketChecker(client).CheckBucket(context.Background(), "missing-bucket")
	assert.ErrorIs(t, err, ErrBucketNotFound)
	assert.ErrorContains(t, err, "missing-bucket")
}

func TestBucketChecker_OtherError(t *testing.T) {
	client := &mockS3{}
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, errors.New("Forbidden"))

	err := NewBucketChecker(client).CheckBucket(context.Background(), "locked-bucket")
	assert.NotErrorIs(t, err, ErrBucketNotFound)
	assert.ErrorContains(t, err, "Forbidden")
}

func TestS3URI(t *testing.T) {
	tests := []struct {
		bucket, prefix, expected string
	}{
		{"my-bucket", "", "s3://my-bucket/"},
		{"my-bucket", "exports", "s3://my-bucket/exports/"},
		{"my-bucket", "/exports/nightly/", "s3://my-bucket/exports/nightly/"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, S3URI(test.bucket, test.prefix))
	}
}
