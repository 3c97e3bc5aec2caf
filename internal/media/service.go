// AngelaMos | 2026
// service.go

package media

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/carterperez-dev/tierboard/internal/config"
	"github.com/carterperez-dev/tierboard/internal/core"
)

const defaultPresignExpire = 15 * time.Minute

var ErrDisabled = fmt.Errorf("media uploads disabled: %w", core.ErrNotFound)

var extensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// Upload is a presigned PUT target plus the URL the stored image will be
// served from.
type Upload struct {
	UploadURL string    `json:"uploadUrl"`
	ImageURL  string    `json:"imageUrl"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Presigner is the subset of *s3.PresignClient the service needs.
type Presigner interface {
	PresignPutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.PresignOptions),
	) (*v4.PresignedHTTPRequest, error)
}

type Service struct {
	presigner Presigner
	cfg       config.MediaConfig
	now       func() time.Time
}

// NewService builds an S3 presigner from the default AWS credential chain.
// A disabled config yields a service whose calls return ErrDisabled.
func NewService(ctx context.Context, cfg config.MediaConfig) (*Service, error) {
	if !cfg.Enabled {
		return NewServiceWithPresigner(nil, cfg), nil
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewServiceWithPresigner(s3.NewPresignClient(client), cfg), nil
}

func NewServiceWithPresigner(p Presigner, cfg config.MediaConfig) *Service {
	if cfg.PresignExpire <= 0 {
		cfg.PresignExpire = defaultPresignExpire
	}
	return &Service{presigner: p, cfg: cfg, now: time.Now}
}

func (s *Service) Enabled() bool {
	return s.cfg.Enabled && s.presigner != nil
}

// PresignImageUpload returns a short-lived PUT URL for a new character
// image under boards/<boardID>/.
func (s *Service) PresignImageUpload(
	ctx context.Context,
	boardID, contentType string,
) (*Upload, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := extensions[contentType]
	if !ok {
		return nil, core.Invalid("contentType must be one of image/png, image/jpeg, image/gif, image/webp")
	}

	key := fmt.Sprintf("boards/%s/%s.%s", boardID, uuid.New().String(), ext)
	expiresAt := s.now().Add(s.cfg.PresignExpire)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.cfg.PresignExpire))
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &Upload{
		UploadURL: req.URL,
		ImageURL:  s.publicURL(key),
		Key:       key,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) publicURL(key string) string {
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	case s.cfg.Endpoint != "":
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}
