package s3presign

// Credentials is a frozen set of S3 credentials. A Signer never mutates or
// refreshes them.
type Credentials struct {
	// AccessKey is the access key ID, usually AWS_ACCESS_KEY_ID.
	AccessKey string
	// SecretKey is the secret access key, usually AWS_SECRET_ACCESS_KEY.
	SecretKey string
	// SessionToken is set for temporary (STS) credentials, usually
	// AWS_SESSION_TOKEN. Temporary credentials expire; recreate the Signer
	// when they do.
	SessionToken string
}

func (c Credentials) hasSessionToken() bool {
	return c.SessionToken != ""
}
