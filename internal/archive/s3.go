package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"catalog-go/internal/catalog"
)

// versionMetaKey is the object metadata entry holding an item's version.
// S3 returns user metadata keys lower-cased.
const versionMetaKey = "catalog-version"

// S3Options configures an S3Archive. Endpoint and UsePathStyle support
// S3-compatible stores; empty credentials fall back to the default chain.
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// S3Archive stores items as objects named <prefix>/<clientID>/<name>, with
// the version kept in the object's user metadata.
type S3Archive struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Archive loads AWS configuration and builds the client.
func NewS3Archive(ctx context.Context, opts S3Options) (*S3Archive, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
		// Flexible checksums only where an operation requires them.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &S3Archive{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		prefix:   opts.Prefix,
	}, nil
}

func (a *S3Archive) key(clientID, name string) string {
	return path.Join(a.prefix, clientID, name)
}

func (a *S3Archive) Put(clientID, name string, r io.Reader, size int64, version int64) error {
	counter := &countingReader{r: r}
	_, err := a.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:   aws.String(a.bucket),
		Key:      aws.String(a.key(clientID, name)),
		Body:     counter,
		Metadata: map[string]string{versionMetaKey: strconv.FormatInt(version, 10)},
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", a.key(clientID, name), err)
	}
	if counter.n != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, counter.n)
	}
	return nil
}

func (a *S3Archive) Get(clientID, name string, w io.Writer) error {
	out, err := a.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(clientID, name)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return fmt.Errorf("archive item %q for client %s: %w", name, clientID, catalog.ErrNotFound)
		}
		return fmt.Errorf("downloading %s: %w", a.key(clientID, name), err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading %s: %w", a.key(clientID, name), err)
	}
	return nil
}

// Version returns 0 when the object does not exist.
func (a *S3Archive) Version(clientID, name string) (int64, error) {
	out, err := a.client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(clientID, name)),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s metadata: %w", a.key(clientID, name), err)
	}

	raw, ok := out.Metadata[versionMetaKey]
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version of %s: %w", a.key(clientID, name), err)
	}
	return v, nil
}

// ValidateSetup checks that the bucket exists and is reachable.
func (a *S3Archive) ValidateSetup() error {
	_, err := a.client.HeadBucket(context.Background(), &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", a.bucket, err)
	}
	return nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

var _ catalog.Archive = (*S3Archive)(nil)
