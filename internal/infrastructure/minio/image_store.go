package minio

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/K-AMeus/PartynApp/internal/domain/storage"
)

// イベント画像の保存先プレフィックス
const imagePrefix = "events/"

// Config はオブジェクトストレージ接続設定
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ImageStore はMinIO（S3互換ストレージ）を使った画像ストアの実装
type ImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewImageStore はMinIOクライアントを作成し、バケットを準備する
// バケットが存在しない場合は作成し、公開読み取りポリシーを設定する
func NewImageStore(ctx context.Context, cfg *Config) (*ImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("ストレージクライアント作成に失敗しました: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("バケット確認に失敗しました: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("バケット作成に失敗しました: %w", err)
		}
	}

	// 画像URLをそのまま配信できるように公開読み取りを許可する
	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, cfg.Bucket)
	if err := client.SetBucketPolicy(ctx, cfg.Bucket, policy); err != nil {
		return nil, fmt.Errorf("バケットポリシー設定に失敗しました: %w", err)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return &ImageStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}, nil
}

// Store は画像を保存し、公開URLを返す
// 既存オブジェクトを上書きしないよう、キーにUUIDを接頭辞として付与する
func (s *ImageStore) Store(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := imagePrefix + uuid.New().String() + "-" + filename

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
	}

	return s.URLForKey(key), nil
}

// List は保存済みの画像オブジェクト一覧を返す
func (s *ImageStore) List(ctx context.Context) ([]storage.StoredObject, error) {
	var objects []storage.StoredObject
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    imagePrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, obj.Err)
		}
		objects = append(objects, storage.StoredObject{
			Key:          obj.Key,
			URL:          s.URLForKey(obj.Key),
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

// Remove は指定キーのオブジェクトを削除する
func (s *ImageStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrStorageUnavailable, err)
	}
	return nil
}

// URLForKey はオブジェクトキーから公開URLを組み立てる
func (s *ImageStore) URLForKey(key string) string {
	return s.baseURL + "/" + strings.TrimPrefix(key, "/")
}

// インターフェースを満たしているか確認
var _ storage.ImageStore = (*ImageStore)(nil)
