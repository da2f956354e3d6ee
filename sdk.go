package s3presign

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
)

// FromS3Client creates a Signer from a configured aws-sdk-go-v2 S3 client,
// using the client's own endpoint resolution and credentials.
//
// Rather than reverse-engineering how the client maps a bucket to a URL
// (path-style, virtual-hosted, custom endpoint, dualstack, ...), it asks
// the client to presign one GET for a random probe key and truncates the
// result at that key, recovering the exact bucket endpoint the client
// would use. No request is ever sent.
//
// Retrieving credentials may cause the client's provider to refresh them,
// but the returned Signer never refreshes again. With temporary (STS)
// credentials the Signer should be short-lived: create, sign, discard.
func FromS3Client(ctx context.Context, client *s3.Client, bucket string, opts ...Option) (*Signer, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	probeKey := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()

	presigner := s3.NewPresignClient(client)
	probe, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(probeKey),
	})
	if err != nil {
		return nil, fmt.Errorf("presign probe request for bucket %s: %w", bucket, err)
	}

	idx := strings.Index(probe.URL, probeKey)
	if idx < 0 {
		return nil, fmt.Errorf("probe key not found in presigned URL %q", probe.URL)
	}
	bucketEndpointURL := probe.URL[:idx]

	options := client.Options()
	if options.Credentials == nil {
		return nil, fmt.Errorf("S3 client has no credentials provider")
	}
	frozen, err := options.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve credentials: %w", err)
	}

	creds := Credentials{
		AccessKey:    frozen.AccessKeyID,
		SecretKey:    frozen.SecretAccessKey,
		SessionToken: frozen.SessionToken,
	}

	merged := append([]Option{WithRegion(options.Region)}, opts...)
	return New(bucketEndpointURL, creds, merged...)
}
