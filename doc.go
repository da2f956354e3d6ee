// Package s3presign generates AWS Signature Version 4 presigned GET-object
// URLs in batches.
//
// The official SDK presigner re-resolves credentials, re-formats the
// timestamp and re-derives the signing key for every single URL. When a
// caller needs thousands of download links at once (building a catalog
// page, exporting a manifest), that per-request overhead dominates. A
// Signer does all of the time-dependent work once per batch and reuses it
// for every key, leaving one SHA-256 and one HMAC per URL.
//
//	signer, err := s3presign.New("https://my-bucket.s3.amazonaws.com/", s3presign.Credentials{
//		AccessKey: os.Getenv("S3_ACCESS_KEY"),
//		SecretKey: os.Getenv("S3_SECRET_KEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	urls, err := signer.GenerateGetObjectURLs(keys, 15*time.Minute)
//
// A Signer can also be derived from a configured aws-sdk-go-v2 S3 client
// with FromS3Client, inheriting whatever endpoint style and credentials the
// client resolved. Credentials are frozen at construction: if they are
// temporary and expire, URLs signed afterwards are silently invalid and the
// caller must build a new Signer.
package s3presign
