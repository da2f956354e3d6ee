package s3presign

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	algorithm       = "AWS4-HMAC-SHA256"
	serviceName     = "s3"
	terminationStr  = "aws4_request"
	timeFormat      = "20060102T150405Z"
	dateFormat      = "20060102"
	unsignedPayload = "UNSIGNED-PAYLOAD"
)

const (
	// DefaultRegion is used when no region is supplied.
	DefaultRegion = "us-east-1"

	// DefaultExpires is the URL validity used when GenerateGetObjectURLs is
	// called with a zero expiry.
	DefaultExpires = time.Hour

	// MaxExpires is the longest validity S3 accepts for a presigned URL.
	MaxExpires = 7 * 24 * time.Hour

	minExpires = time.Second
)

// Signer generates presigned GET-object URLs for a single bucket endpoint.
//
// All fields are fixed at construction, so a Signer is safe for concurrent
// use; every batch call derives its own signing material on the stack.
type Signer struct {
	canonicalURIPrefix string
	endpointURL        string
	bucketHost         string
	region             string
	creds              Credentials
}

// Option configures a Signer during construction.
type Option func(*Signer)

// WithRegion sets the AWS region used in the credential scope. An empty
// region keeps the default.
func WithRegion(region string) Option {
	return func(s *Signer) {
		if region != "" {
			s.region = region
		}
	}
}

// New creates a Signer for a bucket endpoint URL.
//
// The endpoint may be virtual-hosted style ("https://my-bucket.s3.amazonaws.com/")
// or path-style ("https://s3.amazonaws.com/my-bucket/"); the bucket path, if
// any, becomes part of every canonical URI so signatures come out identical
// to what the service computes for that endpoint style.
func New(bucketEndpointURL string, creds Credentials, opts ...Option) (*Signer, error) {
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return nil, fmt.Errorf("access key and secret key are required")
	}

	u, err := url.Parse(bucketEndpointURL)
	if err != nil {
		return nil, fmt.Errorf("parse bucket endpoint URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("bucket endpoint URL %q must be absolute", bucketEndpointURL)
	}

	s := &Signer{
		canonicalURIPrefix: strings.TrimRight(u.Path, "/"),
		endpointURL:        u.Scheme + "://" + u.Host,
		bucketHost:         u.Host,
		region:             DefaultRegion,
		creds:              creds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GenerateGetObjectURLs returns one presigned GET URL per object key, in
// input order. A zero expires means DefaultExpires.
//
// The timestamp, signing key and query-string template are computed once
// per call and shared by every key, so signing N keys costs one HMAC chain
// plus N(hash + HMAC) rather than N of everything. All URLs in a batch
// therefore carry the same X-Amz-Date, X-Amz-Credential and X-Amz-Expires.
func (s *Signer) GenerateGetObjectURLs(objectKeys []string, expires time.Duration) ([]string, error) {
	return s.generateGetObjectURLsAt(objectKeys, expires, time.Now().UTC())
}

// generateGetObjectURLsAt carries the signing logic with an injected clock.
func (s *Signer) generateGetObjectURLsAt(objectKeys []string, expires time.Duration, now time.Time) ([]string, error) {
	if expires == 0 {
		expires = DefaultExpires
	}
	if expires < minExpires || expires > MaxExpires {
		return nil, fmt.Errorf("%w: got %v", ErrExpiresOutOfRange, expires)
	}

	// Validate the whole batch up front so failure never yields partial
	// output.
	for i, key := range objectKeys {
		if key == "" {
			return nil, fmt.Errorf("%w: key at index %d is empty", ErrEmptyObjectKey, i)
		}
	}
	if len(objectKeys) == 0 {
		return []string{}, nil
	}

	datestamp := now.Format(dateFormat)
	amzDate := now.Format(timeFormat)

	signingKey := deriveSigningKey(s.creds.SecretKey, datestamp, s.region, serviceName)
	credentialScope := datestamp + "/" + s.region + "/" + serviceName + "/" + terminationStr

	canonicalHeaders := "host:" + s.bucketHost + "\n"
	signedHeaders := "host"

	queryParts := []string{
		"X-Amz-Algorithm=" + algorithm,
		"X-Amz-Credential=" + uriEncode(s.creds.AccessKey+"/"+credentialScope, false),
		"X-Amz-Date=" + amzDate,
		"X-Amz-Expires=" + strconv.FormatInt(int64(expires/time.Second), 10),
		"X-Amz-SignedHeaders=" + signedHeaders,
	}
	if s.creds.hasSessionToken() {
		queryParts = append(queryParts, "X-Amz-Security-Token="+uriEncode(s.creds.SessionToken, false))
	}

	// The canonical request hashes the query string as-is, so the encoded
	// "key=value" strings must be in ASCII byte order or the service
	// computes a different signature.
	sort.Strings(queryParts)
	queryTemplate := strings.Join(queryParts, "&")

	urls := make([]string, 0, len(objectKeys))

	for _, objectKey := range objectKeys {
		canonicalURI := s.canonicalURIPrefix + "/" + uriEncode(objectKey, true)

		canonicalRequest := strings.Join([]string{
			"GET",
			canonicalURI,
			queryTemplate,
			canonicalHeaders,
			signedHeaders,
			unsignedPayload,
		}, "\n")

		hash := sha256.Sum256([]byte(canonicalRequest))

		stringToSign := strings.Join([]string{
			algorithm,
			amzDate,
			credentialScope,
			hex.EncodeToString(hash[:]),
		}, "\n")

		signature := hex.EncodeToString(hmacSHA256(signingKey, []byte(stringToSign)))

		urls = append(urls, s.endpointURL+canonicalURI+"?"+queryTemplate+"&X-Amz-Signature="+signature)
	}

	return urls, nil
}

// deriveSigningKey derives the signing key using the SigV4 HMAC chain.
func deriveSigningKey(secretKey, datestamp, region, service string) []byte {
	kDate := hmacSHA256([]byte("AWS4"+secretKey), []byte(datestamp))
	kRegion := hmacSHA256(kDate, []byte(region))
	kService := hmacSHA256(kRegion, []byte(service))
	return hmacSHA256(kService, []byte(terminationStr))
}

// hmacSHA256 computes HMAC-SHA256 of data using the given key.
func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
