package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/class-reservations/internal/clock"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

var ErrNotConfigured = errors.New("export: bucket not configured")

// Uploader é a parte de *s3.Client usada pelo exporter.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client monta o client com credenciais estáticas. Endpoint próprio
// (MinIO, localstack) liga o path-style.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		)
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// S3Exporter sobe snapshots do ledger como documentos JSON.
type S3Exporter struct {
	uploader Uploader
	bucket   string
	clock    clock.Clock
}

func NewS3Exporter(uploader Uploader, bucket string, clk clock.Clock) *S3Exporter {
	return &S3Exporter{uploader: uploader, bucket: bucket, clock: clk}
}

type snapshot struct {
	ExportedAt   time.Time            `json:"exported_at"`
	Total        int                  `json:"total"`
	Appointments []domain.Appointment `json:"appointments"`
}

// Export grava appointments/<timestamp UTC>.json e devolve a chave.
func (e *S3Exporter) Export(ctx context.Context, appointments []domain.Appointment) (string, error) {
	if e == nil || e.uploader == nil || e.bucket == "" {
		return "", ErrNotConfigured
	}

	now := e.clock.Now().UTC()
	body, err := json.Marshal(snapshot{
		ExportedAt:   now,
		Total:        len(appointments),
		Appointments: appointments,
	})
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("appointments/%s.json", now.Format("20060102T150405Z"))
	_, err = e.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}
