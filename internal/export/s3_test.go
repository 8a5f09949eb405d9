package export

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/class-reservations/internal/clock"
	domain "github.com/BruksfildServices01/class-reservations/internal/domain/appointment"
)

type fakeUploader struct {
	bucket string
	key    string
	body   []byte
	err    error
}

func (f *fakeUploader) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.ToString(in.Bucket)
	f.key = aws.ToString(in.Key)
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestS3ExporterExport(t *testing.T) {
	t.Parallel()

	up := &fakeUploader{}
	clk := clock.NewManual(time.Date(2026, 3, 2, 13, 4, 5, 0, time.UTC))
	e := NewS3Exporter(up, "reports", clk)

	aps := []domain.Appointment{
		{ID: 1, UserID: 2, LegacyTimeslotID: 3, Status: domain.StatusConfirmed},
	}
	key, err := e.Export(context.Background(), aps)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if key != "appointments/20260302T130405Z.json" || up.key != key || up.bucket != "reports" {
		t.Fatalf("unexpected upload %s/%s (returned %s)", up.bucket, up.key, key)
	}

	var snap snapshot
	if err := json.Unmarshal(up.body, &snap); err != nil {
		t.Fatalf("body: %v", err)
	}
	if snap.Total != 1 || snap.Appointments[0].ID != 1 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestS3ExporterErrors(t *testing.T) {
	t.Parallel()

	clk := clock.NewManual(time.Now())

	if _, err := NewS3Exporter(nil, "", clk).Export(context.Background(), nil); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}

	boom := errors.New("access denied")
	if _, err := NewS3Exporter(&fakeUploader{err: boom}, "b", clk).Export(context.Background(), nil); !errors.Is(err, boom) {
		t.Fatalf("expected upload error, got %v", err)
	}
}

func TestNewS3Client(t *testing.T) {
	t.Parallel()

	c := NewS3Client(S3Config{Region: "us-east-1", Endpoint: "http://localhost:9000", AccessKey: "k", SecretKey: "s"})
	if c.Options().UsePathStyle != true || aws.ToString(c.Options().BaseEndpoint) != "http://localhost:9000" {
		t.Fatalf("custom endpoint must use path style")
	}
}
