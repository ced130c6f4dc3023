package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MediaAsset is what the media host hands back for an uploaded image:
// the public URL and an opaque handle for later deletion.
type MediaAsset struct {
	URL          string `json:"url"`
	DeleteHandle string `json:"-"`
}

// MediaService is the media-host boundary. Upload failures abort the
// owning operation; Delete is best-effort (an orphaned remote asset is
// preferable to blocking a cascade).
type MediaService interface {
	Upload(ctx context.Context, body io.Reader, filename, contentType string) (*MediaAsset, error)
	Delete(ctx context.Context, deleteHandle string) error
}

type S3MediaService struct {
	Client  *s3.Client
	Bucket  string
	BaseURL string
}

// InitializeS3Client initializes the S3 client
func InitializeS3Client(region string) *s3.Client {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("Failed to load AWS config: %v", err)
	}
	return s3.NewFromConfig(cfg)
}

func (s *S3MediaService) Upload(ctx context.Context, body io.Reader, filename, contentType string) (*MediaAsset, error) {
	key := "uploads/" + time.Now().Format("20060102150405") + "-" + uuid.New().String() + path.Ext(filename)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload object '%s': %w", key, err)
	}
	log.Printf("Uploaded media asset %s", key)
	return &MediaAsset{
		URL:          s.BaseURL + "/" + key,
		DeleteHandle: key,
	}, nil
}

func (s *S3MediaService) Delete(ctx context.Context, deleteHandle string) error {
	_, err := s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(deleteHandle),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object '%s': %w", deleteHandle, err)
	}
	return nil
}
