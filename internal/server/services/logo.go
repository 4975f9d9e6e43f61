package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/reviewflow/reviewflow/internal/common"
	sc "github.com/reviewflow/reviewflow/internal/server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxLogoBase64Bytes caps the base64 payload of an upload. Base64 adds
// roughly a third of overhead, so this admits images just under 4 MiB.
const maxLogoBase64Bytes = 5 * 1024 * 1024

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	getObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
)

// allowedLogoTypes whitelists upload content types; only images pass.
var allowedLogoTypes = map[string]struct{}{
	"image/png":     {},
	"image/jpeg":    {},
	"image/jpg":     {},
	"image/gif":     {},
	"image/svg+xml": {},
	"image/webp":    {},
}

// extContentTypes maps object-key extensions to content types for stored
// objects whose metadata is missing one.
var extContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// Logo is a stored campaign logo streamed back to the client.
type Logo struct {
	Body        io.ReadCloser
	ContentType string
}

// LogoService stores campaign logos in an S3-compatible bucket.
type LogoService struct {
	config *sc.Config
}

func NewLogoService(config *sc.Config) *LogoService {
	return &LogoService{config: config}
}

func (s *LogoService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
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

	return client, nil
}

// logoStorageKey builds the object key for an uploaded logo. Keys embed the
// campaign id when one was supplied so bucket listings group per campaign.
func logoStorageKey(campaignID int64, filename string) (string, error) {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "png"
	}

	id, err := common.MakeRandHexString(8)
	if err != nil {
		return "", err
	}

	if campaignID > 0 {
		return fmt.Sprintf("campaign-logos/campaign-%d-%s.%s", campaignID, id, ext), nil
	}
	return fmt.Sprintf("campaign-logos/logo-%s.%s", id, ext), nil
}

// UploadLogo validates and stores a base64-encoded image, returning the
// object key it was stored under. Validation failures come back as
// common.ErrorValidation.
func (s *LogoService) UploadLogo(ctx context.Context, encoded, filename, contentType string, campaignID int64) (string, error) {
	if encoded == "" || filename == "" {
		return "", common.ErrorValidation
	}
	if len(filename) > 255 {
		return "", common.ErrorValidation
	}

	if contentType == "" {
		contentType = "image/png"
	}
	if _, ok := allowedLogoTypes[contentType]; !ok {
		return "", common.ErrorValidation
	}

	// Strip a data-URL prefix ("data:image/png;base64,...") if present.
	if i := strings.IndexByte(encoded, ','); i >= 0 {
		encoded = encoded[i+1:]
	}

	if len(encoded) > maxLogoBase64Bytes {
		return "", common.ErrorValidation
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", common.ErrorValidation
	}

	key, err := logoStorageKey(campaignID, filename)
	if err != nil {
		return "", common.ErrorInternal
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("error creating storage client: %v", err)
	}

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading logo: %v", err)
	}

	return key, nil
}

// ServeLogo fetches the object stored under key. The caller owns Body and
// must close it. A missing object yields common.ErrorNotFound.
func (s *LogoService) ServeLogo(ctx context.Context, key string) (*Logo, error) {
	if key == "" {
		return nil, common.ErrorValidation
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating storage client: %v", err)
	}

	out, err := getObject(client, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error fetching logo: %v", err)
	}

	contentType := aws.ToString(out.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt, ok := extContentTypes[strings.ToLower(path.Ext(key))]; ok {
			contentType = byExt
		} else {
			contentType = "image/png"
		}
	}

	return &Logo{Body: out.Body, ContentType: contentType}, nil
}
