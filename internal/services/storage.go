package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/foxxcyber/voicelist/internal/models"
)

const snapshotPrefix = "snapshots/"

var ErrSnapshotNotFound = errors.New("snapshot not found")

// StorageService archives cleared lists as JSON objects in S3-compatible storage
type StorageService struct {
	client     *minio.Client
	bucketName string
	region     string
	now        func() time.Time
}

// snapshotBody is the stored object layout
type snapshotBody struct {
	Owner      string            `json:"owner"`
	ArchivedAt time.Time         `json:"archived_at"`
	Items      []models.ListItem `json:"items"`
}

// NewStorageService creates a new S3 storage service
func NewStorageService(endpoint, accessKey, secretKey, bucketName, region string, useSSL bool) (*StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return &StorageService{
		client:     client,
		bucketName: bucketName,
		region:     region,
		now:        time.Now,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{
			Region: s.region,
		})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func ownerPrefix(owner string) string {
	return snapshotPrefix + url.PathEscape(owner) + "/"
}

// snapshotKey orders an owner's snapshots by time when listed
func snapshotKey(owner string, at time.Time) string {
	return ownerPrefix(owner) + at.UTC().Format("20060102T150405Z") + "-" + uuid.NewString() + ".json"
}

// Archive uploads a copy of items
func (s *StorageService) Archive(ctx context.Context, owner string, items []models.ListItem) (*models.Snapshot, error) {
	at := s.now().UTC()
	body, err := json.Marshal(snapshotBody{Owner: owner, ArchivedAt: at, Items: items})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	key := snapshotKey(owner, at)
	info, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot: %w", err)
	}

	return &models.Snapshot{
		Key:          strings.TrimPrefix(info.Key, ownerPrefix(owner)),
		Size:         info.Size,
		LastModified: at,
	}, nil
}

// ListSnapshots returns the owner's snapshots, newest first
func (s *StorageService) ListSnapshots(ctx context.Context, owner string) ([]models.Snapshot, error) {
	prefix := ownerPrefix(owner)

	var out []models.Snapshot
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		out = append(out, models.Snapshot{
			Key:          strings.TrimPrefix(obj.Key, prefix),
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key > out[j].Key })
	return out, nil
}

// LoadSnapshot returns the items archived under key
func (s *StorageService) LoadSnapshot(ctx context.Context, owner, key string) ([]models.ListItem, error) {
	if key == "" || strings.Contains(key, "/") {
		return nil, ErrSnapshotNotFound
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, ownerPrefix(owner)+key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var body snapshotBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return body.Items, nil
}

// GetBucketName returns the bucket name
func (s *StorageService) GetBucketName() string {
	return s.bucketName
}
