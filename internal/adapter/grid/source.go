package grid

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sanctuary-mural/internal/core/domain"
	"sanctuary-mural/internal/core/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ObjectGetter is the S3 call the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Source implements ports.GridSource for http(s):// and s3:// locations.
// Bodies that are zstd frames are decompressed before decoding.
type Source struct {
	httpClient ports.HTTPClient
	s3         ObjectGetter
	decoder    *zstd.Decoder
	maxBytes   int64
	log        zerolog.Logger
}

// NewSource creates a grid source. s3Client may be nil when no grid lives in S3.
// maxBytes bounds both the fetched body and its decompressed form.
func NewSource(httpClient ports.HTTPClient, s3Client ObjectGetter, maxBytes int64, log zerolog.Logger) (*Source, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("grid size limit must be positive, got %d", maxBytes)
	}
	decoder, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(uint64(maxBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Source{
		httpClient: httpClient,
		s3:         s3Client,
		decoder:    decoder,
		maxBytes:   maxBytes,
		log:        log.With().Str("component", "grid_source").Logger(),
	}, nil
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Fetch downloads, decodes and validates the grid at location.
func (s *Source) Fetch(ctx context.Context, location string) (*domain.Grid, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parsing grid location: %w", err)
	}

	var body io.ReadCloser
	switch u.Scheme {
	case "http", "https":
		body, err = s.fetchHTTP(ctx, location)
	case "s3":
		body, err = s.fetchS3(ctx, u.Host, strings.TrimPrefix(u.Path, "/"))
	default:
		return nil, fmt.Errorf("unsupported grid location scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	defer body.Close()

	raw, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading grid: %w", err)
	}
	if int64(len(raw)) > s.maxBytes {
		return nil, fmt.Errorf("grid exceeds %d bytes", s.maxBytes)
	}

	if bytes.HasPrefix(raw, zstdMagic) {
		raw, err = s.decoder.DecodeAll(raw, nil)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
			return nil, fmt.Errorf("decompressed grid exceeds %d bytes", s.maxBytes)
		}
		if err != nil {
			return nil, fmt.Errorf("decompressing grid: %w", err)
		}
	}

	return Decode(raw)
}

// Decode parses and validates a grid document.
func Decode(raw []byte) (*domain.Grid, error) {
	var g domain.Grid
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decoding grid: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	return &g, nil
}

func (s *Source) fetchHTTP(ctx context.Context, location string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("building grid request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching grid: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching grid: unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *Source) fetchS3(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if s.s3 == nil {
		return nil, fmt.Errorf("s3 grid location s3://%s/%s but no S3 client configured", bucket, key)
	}
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 grid location needs bucket and key")
	}

	out, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get grid from S3: %w", err)
	}
	s.log.Debug().Str("bucket", bucket).Str("key", key).Msg("grid fetched from S3")
	return out.Body, nil
}
