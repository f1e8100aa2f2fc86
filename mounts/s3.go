package mounts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mwantia/treewalk"
	"github.com/mwantia/treewalk/data"
)

// S3Mount provides read-only traversal of an object-store bucket.
// Directories are virtual: any common key prefix is reported as a
// directory, plus zero-byte marker objects with a trailing slash.
// Identities are synthesized by hashing endpoint, bucket and key, so they
// are stable for the lifetime of the bucket contents.
type S3Mount struct {
	client *minio.Client
	bucket string
	device uint64
}

type S3MountConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// NewS3 creates a mount over the given bucket.
func NewS3(cfg S3MountConfig) (*S3Mount, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3Mount{
		client: client,
		bucket: cfg.Bucket,
		device: xxhash.Sum64String(cfg.Endpoint + "/" + cfg.Bucket),
	}, nil
}

// Name returns the identifier name defined for this filesystem.
func (s3m *S3Mount) Name() string {
	return "s3"
}

// WorkingDirectory returns "/"; buckets carry no process context.
func (s3m *S3Mount) WorkingDirectory(ctx context.Context) (string, error) {
	return "/", nil
}

// Stat returns metadata for the object or virtual directory at the given
// path.
func (s3m *S3Mount) Stat(ctx context.Context, p string) (*data.FileStat, error) {
	p = data.ToAbsolutePath(p)
	if p == "/" {
		return s3m.dirStat(p, time.Time{}), nil
	}

	key := strings.TrimPrefix(p, "/")

	info, err := s3m.client.StatObject(ctx, s3m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return s3m.objectStat(p, info), nil
	}

	if code := minio.ToErrorResponse(err).Code; code != "NoSuchKey" {
		return nil, translateS3Error(err, p)
	}

	// No object under the plain key; the path is a directory if a marker
	// object or any deeper key exists.
	info, err = s3m.client.StatObject(ctx, s3m.bucket, key+"/", minio.StatObjectOptions{})
	if err == nil {
		return s3m.dirStat(p, info.LastModified), nil
	}

	objects := s3m.client.ListObjects(ctx, s3m.bucket, minio.ListObjectsOptions{
		Prefix:  key + "/",
		MaxKeys: 1,
	})
	for object := range objects {
		if object.Err != nil {
			return nil, translateS3Error(object.Err, p)
		}
		return s3m.dirStat(p, time.Time{}), nil
	}

	return nil, fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
}

// List returns the direct children of the virtual directory at the given
// path, in key order.
func (s3m *S3Mount) List(ctx context.Context, p string) ([]*data.FileStat, error) {
	p = data.ToAbsolutePath(p)

	prefix := ""
	if p != "/" {
		prefix = strings.TrimPrefix(p, "/") + "/"
	}

	// Non-recursive listing folds deeper keys into common prefixes, which
	// become the virtual child directories.
	objects := s3m.client.ListObjects(ctx, s3m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})

	var stats []*data.FileStat
	for object := range objects {
		if object.Err != nil {
			return nil, translateS3Error(object.Err, p)
		}

		// Skip the directory's own marker object.
		if object.Key == prefix {
			continue
		}

		childPath := "/" + strings.TrimSuffix(object.Key, "/")
		if strings.HasSuffix(object.Key, "/") {
			stats = append(stats, s3m.dirStat(childPath, object.LastModified))
			continue
		}

		stats = append(stats, s3m.objectStat(childPath, object))
	}

	return stats, nil
}

// objectStat converts object info to a FileStat.
func (s3m *S3Mount) objectStat(p string, info minio.ObjectInfo) *data.FileStat {
	if strings.HasSuffix(info.Key, "/") || info.ContentType == "application/x-directory" {
		return s3m.dirStat(p, info.LastModified)
	}

	stat := data.NewFileStat(p, info.Size, 0644)
	stat.Device = s3m.device
	stat.Inode = xxhash.Sum64String(p)
	stat.ModifyTime = info.LastModified

	return stat
}

// dirStat synthesizes a FileStat for a virtual directory.
func (s3m *S3Mount) dirStat(p string, modTime time.Time) *data.FileStat {
	stat := data.NewDirectoryStat(p, 0755)
	stat.Device = s3m.device
	stat.Inode = xxhash.Sum64String(p + "/")
	stat.ModifyTime = modTime

	return stat
}

// translateS3Error maps object-store errors onto the traversal sentinels.
func translateS3Error(err error, p string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: '%s'", treewalk.ErrNotExist, p)
	case "AccessDenied":
		return fmt.Errorf("%w: '%s'", treewalk.ErrPermission, p)
	}

	return err
}
