package minio

import (
	"bytes"
	"context"

	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
	"github.com/rkhn-textiles/pos-backend/internal/cfg"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
)

// ReportRepo хранит выгрузки отчётов в объектном хранилище.
type ReportRepo struct {
	client *minio.Client
	cfg    *cfg.MinIOCfg
}

func NewReportRepo(client *minio.Client, cfg *cfg.MinIOCfg) *ReportRepo {
	return &ReportRepo{
		client: client,
		cfg:    cfg,
	}
}

// Put сохраняет объект и возвращает его ключ.
func (r *ReportRepo) Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	_, err := r.client.PutObject(
		ctx,
		r.cfg.BucketName,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return objectKey, nil
}
