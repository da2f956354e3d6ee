// s3presign generates presigned GET URLs for S3 object keys in one batch
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethanadams/s3presign"
	"github.com/ethanadams/s3presign/internal/awsclient"
)

func main() {
	endpoint := flag.String("endpoint", os.Getenv("S3_ENDPOINT"), "S3 endpoint URL")
	accessKey := flag.String("access-key", os.Getenv("S3_ACCESS_KEY"), "S3 access key")
	secretKey := flag.String("secret-key", os.Getenv("S3_SECRET_KEY"), "S3 secret key")
	sessionToken := flag.String("session-token", os.Getenv("S3_SESSION_TOKEN"), "STS session token (optional)")
	region := flag.String("region", "us-east-1", "AWS region")
	bucket := flag.String("bucket", "", "Bucket name")
	expires := flag.Duration("expires", time.Hour, "URL validity, e.g. 15m")
	useSDK := flag.Bool("use-sdk", false, "Derive endpoint and credentials from an AWS SDK client (default provider chain when no keys are given)")
	pathStyle := flag.Bool("path-style", true, "Address the bucket in the path (SDK mode only)")
	fromStdin := flag.Bool("stdin", false, "Read object keys from stdin, one per line")
	flag.Parse()

	keys := flag.Args()
	if *fromStdin {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				keys = append(keys, line)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	if *bucket == "" || len(keys) == 0 || (!*useSDK && (*endpoint == "" || *accessKey == "" || *secretKey == "")) {
		fmt.Fprintln(os.Stderr, "Usage: s3presign -endpoint URL -access-key KEY -secret-key SECRET -bucket BUCKET [flags] KEY...")
		fmt.Fprintln(os.Stderr, "\nEnvironment variables: S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_SESSION_TOKEN")
		fmt.Fprintln(os.Stderr, "\nExamples:")
		fmt.Fprintln(os.Stderr, "  s3presign -bucket mybucket cat.jpg docs/report.pdf")
		fmt.Fprintln(os.Stderr, "  s3presign -bucket mybucket -expires 15m -stdin < keys.txt")
		fmt.Fprintln(os.Stderr, "  s3presign -bucket mybucket -use-sdk cat.jpg")
		os.Exit(1)
	}

	signer, err := buildSigner(*endpoint, *accessKey, *secretKey, *sessionToken, *region, *bucket, *useSDK, *pathStyle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating signer: %v\n", err)
		os.Exit(1)
	}

	urls, err := signer.GenerateGetObjectURLs(keys, *expires)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing keys: %v\n", err)
		os.Exit(1)
	}

	for _, u := range urls {
		fmt.Println(u)
	}
}

func buildSigner(endpoint, accessKey, secretKey, sessionToken, region, bucket string, useSDK, pathStyle bool) (*s3presign.Signer, error) {
	if useSDK {
		ctx := context.Background()
		client, err := awsclient.New(ctx, awsclient.Options{
			Endpoint:       endpoint,
			AccessKey:      accessKey,
			SecretKey:      secretKey,
			SessionToken:   sessionToken,
			Region:         region,
			ForcePathStyle: pathStyle,
		})
		if err != nil {
			return nil, err
		}
		return s3presign.FromS3Client(ctx, client, bucket)
	}

	bucketEndpoint := strings.TrimRight(endpoint, "/") + "/" + bucket
	creds := s3presign.Credentials{
		AccessKey:    accessKey,
		SecretKey:    secretKey,
		SessionToken: sessionToken,
	}
	return s3presign.New(bucketEndpoint, creds, s3presign.WithRegion(region))
}
