package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// Options configure the S3-compatible blob backend. Endpoint is optional;
// when set the client uses path-style addressing, which MinIO and other
// self-hosted gateways require.
type Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
}

// Client fetches document blobs from S3. Containers map to buckets and
// blob names to object keys.
type Client struct {
	api *awss3.Client
}

func New(ctx context.Context, opts Options) (*Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &Client{api: api}, nil
}

// Fetch reads the object in one GetObject call so the returned content and
// properties always describe the same object version.
func (c *Client) Fetch(ctx context.Context, ref domain.FileReference) ([]byte, domain.FileProperties, error) {
	out, err := c.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(ref.Container),
		Key:    aws.String(ref.BlobName),
	})
	if err != nil {
		return nil, domain.FileProperties{}, classifyFetchError(ref, err)
	}
	defer out.Body.Close()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, domain.FileProperties{}, domain.WrapError(domain.ErrStoreUnavailable, "read blob body", err)
	}

	props := domain.FileProperties{
		Name:        ref.BlobName,
		Size:        int64(len(content)),
		ContentType: aws.ToString(out.ContentType),
	}
	if out.ContentLength != nil {
		props.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		props.LastModified = *out.LastModified
	}
	return content, props, nil
}

func classifyFetchError(ref domain.FileReference, err error) error {
	var noKey *types.NoSuchKey
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noKey) || errors.As(err, &noBucket) {
		return domain.WrapError(domain.ErrBlobNotFound, "fetch blob",
			fmt.Errorf("%s/%s", ref.Container, ref.BlobName))
	}
	// Some S3-compatible services return unmodeled 404s.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return domain.WrapError(domain.ErrBlobNotFound, "fetch blob",
				fmt.Errorf("%s/%s", ref.Container, ref.BlobName))
		}
	}
	return domain.WrapError(domain.ErrStoreUnavailable, "fetch blob", err)
}
