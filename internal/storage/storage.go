package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/playerlink/playerlink/internal/media"
	"github.com/playerlink/playerlink/internal/players"
)

const defaultLinkExpiry = 4 * time.Hour

// Storage exposes an S3 bucket as a media source. Keys are treated as
// slash separated paths.
type Storage struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	linkExpiry time.Duration
}

type Config struct {
	Endpoint       string
	PublicEndpoint string // Used for presigned URLs; falls back to Endpoint if empty
	Bucket         string
	AccessKey      string
	SecretKey      string
	Region         string
	LinkExpiry     time.Duration
}

func New(ctx context.Context, cfg Config) (*Storage, error) {
	if cfg.Region == "" {
		cfg.Region = "eu-central-1"
	}
	if cfg.LinkExpiry <= 0 {
		cfg.LinkExpiry = defaultLinkExpiry
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	presignEndpoint := cfg.Endpoint
	if cfg.PublicEndpoint != "" {
		presignEndpoint = cfg.PublicEndpoint
	}
	presignClient := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(presignEndpoint)
		o.UsePathStyle = true
	})
	presigner := s3.NewPresignClient(presignClient)

	return &Storage{
		client:     client,
		presigner:  presigner,
		bucket:     cfg.Bucket,
		linkExpiry: cfg.LinkExpiry,
	}, nil
}

func (s *Storage) List(ctx context.Context, dir string) ([]media.Object, error) {
	clean, err := media.CleanPath(dir)
	if err != nil {
		return nil, err
	}
	prefix := ""
	if clean != "" {
		prefix = clean + "/"
	}

	var objs []media.Object
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		for _, cp := range page.CommonPrefixes {
			p := strings.TrimSuffix(aws.ToString(cp.Prefix), "/")
			objs = append(objs, media.Object{Name: path.Base(p), Path: p, IsDir: true})
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix || strings.HasSuffix(key, "/") {
				continue
			}
			objs = append(objs, media.Object{
				Name:    path.Base(key),
				Path:    key,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}
	media.SortObjects(objs)
	return objs, nil
}

func (s *Storage) Stat(ctx context.Context, key string) (media.Object, error) {
	clean, err := media.CleanPath(key)
	if err != nil {
		return media.Object{}, err
	}
	if clean == "" {
		return media.Object{Path: "", IsDir: true}, nil
	}
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
	})
	if err != nil {
		if !isNotFound(err) {
			return media.Object{}, fmt.Errorf("head object: %w", err)
		}
		// Prefixes have no object of their own, so a 404 may still be a
		// directory.
		isDir, err := s.hasPrefix(ctx, clean+"/")
		if err != nil {
			return media.Object{}, err
		}
		if !isDir {
			return media.Object{}, media.ErrNotFound
		}
		return media.Object{Name: path.Base(clean), Path: clean, IsDir: true}, nil
	}
	return media.Object{
		Name:    path.Base(clean),
		Path:    clean,
		Size:    aws.ToInt64(out.ContentLength),
		ModTime: aws.ToTime(out.LastModified),
	}, nil
}

func (s *Storage) hasPrefix(ctx context.Context, prefix string) (bool, error) {
	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("list prefix: %w", err)
	}
	return len(out.Contents) > 0 || len(out.CommonPrefixes) > 0, nil
}

// DirectLink presigns a GET for key against the public endpoint.
func (s *Storage) DirectLink(ctx context.Context, key string) (string, error) {
	clean, err := media.CleanPath(key)
	if err != nil {
		return "", err
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(clean),
	}, s3.WithPresignExpires(s.linkExpiry))
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}

	return req.URL, nil
}

// LinkEncoding is none: presigned URLs are already escaped and re-encoding
// would break the signature.
func (s *Storage) LinkEncoding() players.LinkEncoding {
	return players.EncodingNone
}

// EnsureBucket checks that the media bucket exists and is readable. The
// bucket is never created: an empty bucket would only hide a typo in the
// configuration.
func (s *Storage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	if errors.As(err, &nf) || errors.As(err, &nsk) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == 404
}
