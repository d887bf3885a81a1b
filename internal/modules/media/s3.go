package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// S3Uploader puts objects in a bucket. Objects are served either from
// publicBaseURL (a CDN in front of the bucket) or the bucket's own endpoint.
type S3Uploader struct {
	client        s3iface.S3API
	bucket        string
	publicBaseURL string
}

// NewS3Uploader builds an uploader from the default AWS credential chain.
func NewS3Uploader(region, bucket, publicBaseURL string) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return newS3Uploader(s3.New(sess), bucket, publicBaseURL), nil
}

func newS3Uploader(client s3iface.S3API, bucket, publicBaseURL string) *S3Uploader {
	return &S3Uploader{client: client, bucket: bucket, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error) {
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", u.bucket, key, err)
	}
	return u.publicBaseURL + "/" + key, nil
}
