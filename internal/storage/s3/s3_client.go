package s3

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"hansard/internal/config"
	"hansard/internal/domain"
	"hansard/internal/port"
	"hansard/internal/textract"
)

// API is the subset of the S3 client the source uses.
type API interface {
	s3.ListObjectsV2APIClient
	manager.DownloadAPIClient
}

type s3Source struct {
	client     API
	downloader *manager.Downloader
	bucket     string
	prefix     string
}

// NewS3Client creates an S3 client from cfg.
func NewS3Client(ctx context.Context, cfg *config.S3Config) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}
	return s3.NewFromConfig(awsCfg, s3Opts...), nil
}

// NewSource creates a TranscriptSource over the objects under prefix in bucket.
// opts tune the downloader used by Fetch.
func NewSource(client API, bucket, prefix string, opts ...func(*manager.Downloader)) port.TranscriptSource {
	return &s3Source{
		client:     client,
		downloader: manager.NewDownloader(client, opts...),
		bucket:     bucket,
		prefix:     prefix,
	}
}

// List returns every object with a supported transcript extension, in key order.
func (s *s3Source) List(ctx context.Context) ([]port.TranscriptRef, error) {
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})

	var refs []port.TranscriptRef
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list: %w: %w", domain.ErrSourceUnavailable, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			if _, ok := textract.FileTypeOf(key); !ok {
				continue
			}
			refs = append(refs, port.TranscriptRef{
				Name:     path.Base(key),
				Location: key,
				Size:     aws.ToInt64(obj.Size),
				Modified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return refs, nil
}

// Fetch downloads the object in ranged parts. Objects larger than one part are
// fetched concurrently.
func (s *s3Source) Fetch(ctx context.Context, ref port.TranscriptRef) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref.Location),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 download: %w", err)
	}
	return buf.Bytes(), nil
}
