package services

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/reviewflow/reviewflow/internal/common"
	sc "github.com/reviewflow/reviewflow/internal/server/config"
)

func newLogoService() *LogoService {
	cfg := &sc.Config{
		S3Region:       "us-east-1",
		S3RootUser:     "minioadmin",
		S3RootPassword: "minioadmin",
		S3BaseEndpoint: "http://127.0.0.1:9000",
		S3Bucket:       "logos",
	}
	return NewLogoService(cfg)
}

func stubS3(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNew := newS3ClientFromConfig
	origPut := putObject
	origGet := getObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNew
		putObject = origPut
		getObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
}

func TestUploadLogo_Success(t *testing.T) {
	stubS3(t)
	svc := newLogoService()

	var gotKey, gotContentType string
	var gotBody []byte
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotKey = aws.ToString(in.Key)
		gotContentType = aws.ToString(in.ContentType)
		b, err := io.ReadAll(in.Body)
		if err != nil {
			t.Fatalf("reading body: %v", err)
		}
		gotBody = b
		return &s3.PutObjectOutput{}, nil
	}

	payload := base64.StdEncoding.EncodeToString([]byte("png-bytes"))
	key, err := svc.UploadLogo(context.Background(), "data:image/png;base64,"+payload, "logo.png", "image/png", 12)
	if err != nil {
		t.Fatalf("UploadLogo error: %v", err)
	}

	if !strings.HasPrefix(key, "campaign-logos/campaign-12-") || !strings.HasSuffix(key, ".png") {
		t.Fatalf("unexpected key: %q", key)
	}
	if gotKey != key {
		t.Fatalf("stored under %q, returned %q", gotKey, key)
	}
	if gotContentType != "image/png" {
		t.Fatalf("unexpected content type: %q", gotContentType)
	}
	if string(gotBody) != "png-bytes" {
		t.Fatalf("body not decoded: %q", gotBody)
	}
}

func TestUploadLogo_Validation(t *testing.T) {
	stubS3(t)
	svc := newLogoService()

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		t.Fatalf("putObject must not be reached on validation failure")
		return nil, nil
	}

	payload := base64.StdEncoding.EncodeToString([]byte("x"))

	cases := []struct {
		name        string
		encoded     string
		filename    string
		contentType string
	}{
		{"missing base64", "", "logo.png", "image/png"},
		{"missing filename", payload, "", "image/png"},
		{"long filename", payload, strings.Repeat("a", 256) + ".png", "image/png"},
		{"non-image type", payload, "evil.html", "text/html"},
		{"bad base64", "!!!not-base64!!!", "logo.png", "image/png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadLogo(context.Background(), tc.encoded, tc.filename, tc.contentType, 0)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("expected ErrorValidation, got %v", err)
			}
		})
	}
}

func TestUploadLogo_TooLarge(t *testing.T) {
	stubS3(t)
	svc := newLogoService()

	big := strings.Repeat("A", maxLogoBase64Bytes+1)
	_, err := svc.UploadLogo(context.Background(), big, "logo.png", "image/png", 0)
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation for oversized payload, got %v", err)
	}
}

func TestServeLogo_Success(t *testing.T) {
	stubS3(t)
	svc := newLogoService()

	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		if aws.ToString(in.Key) != "campaign-logos/logo-abcd.webp" {
			t.Fatalf("unexpected key: %q", aws.ToString(in.Key))
		}
		return &s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("webp-bytes")),
		}, nil
	}

	logo, err := svc.ServeLogo(context.Background(), "campaign-logos/logo-abcd.webp")
	if err != nil {
		t.Fatalf("ServeLogo error: %v", err)
	}
	defer logo.Body.Close()

	// Content type falls back to the key extension when object metadata has none.
	if logo.ContentType != "image/webp" {
		t.Fatalf("unexpected content type: %q", logo.ContentType)
	}
	body, err := io.ReadAll(logo.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(body) != "webp-bytes" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestServeLogo_NotFound(t *testing.T) {
	stubS3(t)
	svc := newLogoService()

	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return nil, &types.NoSuchKey{}
	}

	if _, err := svc.ServeLogo(context.Background(), "campaign-logos/missing.png"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestServeLogo_EmptyKey(t *testing.T) {
	stubS3(t)
	svc := newLogoService()

	if _, err := svc.ServeLogo(context.Background(), ""); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("expected ErrorValidation, got %v", err)
	}
}
