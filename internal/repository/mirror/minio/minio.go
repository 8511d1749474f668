// Package minio mirrors exported files to an S3-compatible bucket after a
// successful local run. Mirroring is best-effort: the local export result
// is authoritative and mirror failures never change it.
package minio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"watermark-studio/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

type Mirror struct {
	client  *minio.Client
	bucket  string
	retries retry.Strategy
	logger  *zlog.Zerolog
}

func NewMirror(cfg *config.Config, retries retry.Strategy, logger *zlog.Zerolog) (*Mirror, error) {
	client, err := minio.New(cfg.Mirror.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Mirror.AccessKey, cfg.Mirror.SecretKey, ""),
		Secure: cfg.Mirror.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mirror client: %w", err)
	}

	return &Mirror{
		client:  client,
		bucket:  cfg.Mirror.Bucket,
		retries: retries,
		logger:  logger,
	}, nil
}

func (m *Mirror) Upload(ctx context.Context, localPath, objectName string) error {
	err := retry.Do(func() error {
		_, err := m.client.FPutObject(ctx, m.bucket, objectName, localPath, minio.PutObjectOptions{
			ContentType: contentTypeFor(objectName),
		})
		return err
	}, m.retries)
	if err != nil {
		return fmt.Errorf("failed to mirror %s: %w", objectName, err)
	}

	m.logger.Debug().
		Str("bucket", m.bucket).
		Str("object", objectName).
		Msg("Exported file mirrored")
	return nil
}

func contentTypeFor(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".png" {
		return "image/png"
	}
	return "image/jpeg"
}
