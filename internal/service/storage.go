package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appconfig "github.com/deokslife/portfolio-api/internal/config"
	"github.com/deokslife/portfolio-api/internal/models"
)

// Storage containers. Pre-provisioned in production; EnsureBuckets creates
// them on a fresh local object store.
const (
	ImageBucket = "project-images"
	FileBucket  = "project-files"
)

const (
	maxImageSize = 5 << 20
	maxFileSize  = 50 << 20
)

// imageTypes are the content types accepted for preview images.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// fileTypes are the content types accepted for downloadable files.
var fileTypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true,
	"image/gif": true, "image/webp": true,
	"application/pdf": true, "application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true, "text/csv": true, "text/html": true,
	"application/zip": true, "application/x-rar-compressed": true,
	"application/x-7z-compressed": true, "application/x-msdownload": true,
	"application/x-msi": true, "application/json": true,
	"application/xml": true, "application/octet-stream": true,
}

// fileExtensions widen the file allow-list for types browsers report
// generically.
var fileExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true, ".txt": true, ".csv": true, ".html": true,
	".zip": true, ".rar": true, ".7z": true, ".exe": true, ".msi": true,
	".dmg": true, ".pkg": true, ".json": true, ".xml": true, ".yaml": true,
	".yml": true, ".py": true, ".java": true, ".cpp": true, ".c": true,
	".go": true, ".rs": true, ".js": true, ".ts": true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// S3API is the subset of the S3 client the storage service uses. The
// concrete *s3.Client satisfies it; tests substitute a fake.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// NewS3Client builds an S3 client against the configured endpoint with
// static credentials and path-style addressing (MinIO compatible).
func NewS3Client(ctx context.Context, opts *appconfig.Options) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.S3AccessKey,
			opts.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(opts.S3Endpoint)
		o.UsePathStyle = true
	}), nil
}

// FileUpload describes a stored downloadable file.
type FileUpload struct {
	URL          string `json:"url"`
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	FileSize     int64  `json:"fileSize"`
}

// StorageService uploads project assets to object storage and removes them
// best-effort when their app is deleted.
type StorageService struct {
	client        S3API
	publicBaseURL string
	log           *zap.Logger
}

// NewStorageService constructs a StorageService. publicBaseURL is the base
// under which objects are served: "<base>/<bucket>/<key>".
func NewStorageService(client S3API, publicBaseURL string, log *zap.Logger) *StorageService {
	return &StorageService{
		client:        client,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

// EnsureBuckets creates the image and file buckets if they do not exist yet.
func (s *StorageService) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{ImageBucket, FileBucket} {
		_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)})
		if err == nil {
			continue
		}
		if _, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		s.log.Info("created bucket", zap.String("bucket", bucket))
	}
	return nil
}

// PublicURL derives the externally reachable URL of a stored object.
func (s *StorageService) PublicURL(bucket, key string) string {
	return s.publicBaseURL + "/" + bucket + "/" + key
}

// ResolveAssetPath extracts the object key a public asset URL points to
// within the given bucket, percent-decoded. It reports false when there is
// nothing to delete: empty URLs, inline data: URLs, and URLs that do not
// reference the bucket.
func (s *StorageService) ResolveAssetPath(rawURL, bucket string) (string, bool) {
	if rawURL == "" || strings.HasPrefix(rawURL, "data:") {
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	marker := "/" + bucket + "/"
	idx := strings.Index(u.EscapedPath(), marker)
	if idx < 0 {
		return "", false
	}
	key := u.EscapedPath()[idx+len(marker):]
	if key == "" {
		return "", false
	}
	decoded, err := url.PathUnescape(key)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// DeleteAsset removes one object by key. Transport and service errors are
// returned as values, never panics.
func (s *StorageService) DeleteAsset(ctx context.Context, key, bucket string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// DeleteAppAssets removes the image and downloadable file of a deleted app.
// The two deletions are independent and run concurrently; an absent URL, an
// inline data: URL, or a URL outside our storage counts as already deleted.
// The report never carries an error as a failure of the app deletion itself.
func (s *StorageService) DeleteAppAssets(ctx context.Context, imageURL, downloadURL string) models.CleanupReport {
	var (
		wg                sync.WaitGroup
		imageRes, fileRes assetResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		imageRes = s.deleteByURL(ctx, imageURL, ImageBucket, "image")
	}()
	go func() {
		defer wg.Done()
		fileRes = s.deleteByURL(ctx, downloadURL, FileBucket, "file")
	}()
	wg.Wait()

	report := models.CleanupReport{
		ImageDeleted: imageRes.deleted,
		FileDeleted:  fileRes.deleted,
	}
	if imageRes.errMsg != "" {
		report.Errors = append(report.Errors, imageRes.errMsg)
	}
	if fileRes.errMsg != "" {
		report.Errors = append(report.Errors, fileRes.errMsg)
	}
	return report
}

type assetResult struct {
	deleted bool
	errMsg  string
}

func (s *StorageService) deleteByURL(ctx context.Context, rawURL, bucket, label string) assetResult {
	key, ok := s.ResolveAssetPath(rawURL, bucket)
	if !ok {
		// Nothing stored remotely for this URL.
		return assetResult{deleted: true}
	}
	if err := s.DeleteAsset(ctx, key, bucket); err != nil {
		return assetResult{errMsg: fmt.Sprintf("%s deletion failed: %v", label, err)}
	}
	return assetResult{deleted: true}
}

// UploadImage validates and stores a preview image, returning its public URL.
func (s *StorageService) UploadImage(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	if !imageTypes[contentType] {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrValidation, contentType)
	}
	if size > maxImageSize {
		return "", fmt.Errorf("%w: image exceeds %d bytes", ErrValidation, maxImageSize)
	}

	key := fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(), sanitizeFilename(filename))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(ImageBucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return s.PublicURL(ImageBucket, key), nil
}

// UploadFile validates and stores a downloadable file, returning the stored
// location together with the original name and size.
func (s *StorageService) UploadFile(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*FileUpload, error) {
	if size > maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrValidation, maxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !fileTypes[contentType] && !fileExtensions[ext] {
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrValidation, contentType)
	}

	key := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.New(), sanitizeFilename(filename))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(FileBucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &FileUpload{
		URL:          s.PublicURL(FileBucket, key),
		FileName:     key,
		OriginalName: filename,
		FileSize:     size,
	}, nil
}

func sanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "_")
}
