package fixture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures s3:// fixture sources. Empty fields fall back to the
// default AWS configuration chain.
type S3Options struct {
	Region          string `koanf:"region" yaml:"region,omitempty"`
	Endpoint        string `koanf:"endpoint" yaml:"endpoint,omitempty"`
	AccessKeyID     string `koanf:"access_key_id" yaml:"access_key_id,omitempty"`
	SecretAccessKey string `koanf:"secret_access_key" yaml:"secret_access_key,omitempty"`
	PathStyle       bool   `koanf:"path_style" yaml:"path_style,omitempty"`
}

// Options configures Open.
type Options struct {
	S3 S3Options
	// HTTPClient is used for http(s) sources and as the S3 transport.
	// Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

func (o Options) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return http.DefaultClient
}

// Open returns a reader for source: an http(s) URL, an s3://bucket/key URL,
// or a local file path.
func Open(ctx context.Context, source string, opts Options) (io.ReadCloser, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return openHTTP(ctx, source, opts)
	case strings.HasPrefix(source, "s3://"):
		return openS3(ctx, source, opts)
	default:
		f, err := os.Open(source) //nolint:gosec // fixture path is operator supplied
		if err != nil {
			return nil, fmt.Errorf("open fixture: %w", err)
		}
		return f, nil
	}
}

// Load opens source and decodes its records.
func Load(ctx context.Context, source string, opts Options) ([]Record, error) {
	rc, err := Open(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	records, err := Decode(rc)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = source
		}
		return nil, err
	}
	return records, nil
}

func openHTTP(ctx context.Context, source string, opts Options) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch fixture: %w", err)
	}
	resp, err := opts.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch fixture: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch fixture %s: unexpected status %s", source, resp.Status)
	}
	return resp.Body, nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(source string) (bucket, key string, err error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", "", err
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid s3 url %q: want s3://bucket/key", source)
	}
	return bucket, key, nil
}

func openS3(ctx context.Context, source string, opts Options) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URL(source)
	if err != nil {
		return nil, err
	}

	client, err := newS3Client(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("configure s3: %w", err)
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return nil, fmt.Errorf("fetch fixture %s: %w", source, err)
	}
	return out.Body, nil
}

func newS3Client(ctx context.Context, opts Options) (*s3.Client, error) {
	region := opts.S3.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if opts.S3.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.S3.AccessKeyID, opts.S3.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.HTTPClient != nil {
			o.HTTPClient = opts.HTTPClient
		}
		if opts.S3.PathStyle {
			o.UsePathStyle = true
		}
		if opts.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.S3.Endpoint)
		}
	}), nil
}
