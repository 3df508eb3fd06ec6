package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/secondbrain/internal/netx"
	sc "github.com/dmitrijs2005/secondbrain/internal/server/config"
	"github.com/dmitrijs2005/secondbrain/internal/server/models"
	"github.com/dmitrijs2005/secondbrain/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadObject = netx.UploadToPresignedURL
)

const exportContentType = "application/json"

// ExportResult points at an uploaded export.
type ExportResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportDocument is the JSON written to object storage.
type ExportDocument struct {
	ExportedAt time.Time         `json:"exportedAt"`
	User       *models.User      `json:"user"`
	Contents   []*models.Content `json:"contents"`
}

// ExportService writes a user's notes to S3-compatible storage and hands
// back a time-limited download link.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	httpClient  *http.Client
	now         func() time.Time
}

func NewExportService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: m,
		config:      cfg,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		now:         time.Now,
	}
}

// ExportStorageKey builds the object key for a new export of userID.
func ExportStorageKey(userID string, d time.Time) string {
	return fmt.Sprintf("exports/%s/%04d/%02d/%02d/%s.json", userID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ExportService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// Export serializes userID's account header and every content, uploads the
// document and returns a presigned GET link to it.
func (s *ExportService) Export(ctx context.Context, userID string) (*ExportResult, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.repomanager.Contents(s.db).List(ctx, userID, models.ContentFilter{})
	if err != nil {
		return nil, fmt.Errorf("error listing contents: %w", err)
	}

	now := s.now()
	data, err := json.Marshal(ExportDocument{ExportedAt: now.UTC(), User: user, Contents: items})
	if err != nil {
		return nil, fmt.Errorf("error encoding export: %w", err)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := ExportStorageKey(userID, now)
	validity := s.config.ExportURLValidityDuration

	put, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(exportContentType),
	}, s3.WithPresignExpires(validity))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	if err := uploadObject(ctx, s.httpClient, put.URL, exportContentType, data); err != nil {
		return nil, fmt.Errorf("error uploading export: %w", err)
	}

	get, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(validity))
	if err != nil {
		return nil, fmt.Errorf("error presigning download: %w", err)
	}

	return &ExportResult{URL: get.URL, Key: key, ExpiresAt: now.Add(validity)}, nil
}
