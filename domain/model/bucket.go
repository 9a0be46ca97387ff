package model

// BucketProvider is the object storage backend of a platform bucket.
type BucketProvider string

const (
	BucketProviderAWS   BucketProvider = "aws"
	BucketProviderGCP   BucketProvider = "gcp"
	BucketProviderMinio BucketProvider = "minio"
	BucketProviderAzure BucketProvider = "azure"
)

// Bucket is a platform bucket resolved to provider credentials.
type Bucket struct {
	ID       string
	Provider BucketProvider
	Name     string
	Endpoint string
	Region   string

	// S3-compatible credentials.
	AccessKeyID     string
	SecretAccessKey string
	// GCP service account key (JSON).
	KeyJSON string
}

// IsS3Compatible reports whether the bucket speaks the S3 API.
func (b *Bucket) IsS3Compatible() bool {
	return b.Provider == BucketProviderAWS || b.Provider == BucketProviderMinio
}
