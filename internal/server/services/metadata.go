package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/paywall/internal/logging"
	"github.com/dmitrijs2005/paywall/internal/netx"
	"github.com/dmitrijs2005/paywall/internal/server/config"
	"github.com/google/uuid"
)

// LicenseMetadata is the off-chain JSON document a license asset points to.
type LicenseMetadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image,omitempty"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes"`
}

type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// MetadataPublisher uploads license metadata to an S3-compatible bucket
// through a presigned PUT and reports the object's public URL.
type MetadataPublisher struct {
	presigner Presigner
	bucket    string
	baseURL   string
	client    *http.Client
	logger    logging.Logger
}

func NewMetadataPublisher(p Presigner, bucket, baseURL string, client *http.Client, l logging.Logger) *MetadataPublisher {
	return &MetadataPublisher{
		presigner: p,
		bucket:    bucket,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		logger:    l.With("module", "metadata_publisher"),
	}
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewS3Presigner builds a path-style presign client for the configured
// endpoint, which is typically MinIO.
func NewS3Presigner(ctx context.Context, cfg *config.Config) (*s3.PresignClient, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return s3.NewPresignClient(client), nil
}

func newMetadataKey() string {
	d := time.Now().UTC()
	return fmt.Sprintf("licenses/%d/%02d/%s.json", d.Year(), d.Month(), uuid.NewString())
}

// Publish stores meta and returns the URL to embed in minted assets.
func (p *MetadataPublisher) Publish(ctx context.Context, meta LicenseMetadata) (string, error) {
	body, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}

	key := newMetadataKey()
	req, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String("application/json"),
	}, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", fmt.Errorf("presign metadata upload: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, p.client, req.URL, "application/json", body); err != nil {
		return "", fmt.Errorf("upload metadata: %w", err)
	}

	uri := p.baseURL + "/" + p.bucket + "/" + key
	p.logger.Info(ctx, "license metadata published", "uri", uri)
	return uri, nil
}
