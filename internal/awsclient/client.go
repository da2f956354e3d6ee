// Package awsclient builds the aws-sdk-go-v2 S3 client the daemon and CLI
// hand to s3presign.FromS3Client.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configures the S3 client.
type Options struct {
	// Endpoint overrides the AWS endpoint, e.g. for MinIO or a gateway.
	// Empty selects the regional AWS endpoint.
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string

	// ForcePathStyle addresses the bucket in the path instead of the host.
	// Most S3-compatible services behind custom endpoints need this.
	ForcePathStyle bool
}

// New creates an S3 client. Static credentials are used when provided,
// otherwise the default provider chain (env, shared config, IMDS) applies.
func New(ctx context.Context, opts Options) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	return client, nil
}
