package filestorage

import (
	"bytes"
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// Provider хранилище содержимого документов кандидатов. Объект хранится под id записи документа.
type Provider interface {
	Upload(ctx context.Context, objectID string, file []byte, contentType string) error
	Get(ctx context.Context, objectID string) ([]byte, error)
	Delete(ctx context.Context, objectID string) error
	MakeBucket(ctx context.Context) error
}

var Instance Provider

var ErrNotConfigured = errors.New("хранилище файлов не настроено")

type impl struct {
	s3client   *minio.Client
	bucketName string
	region     string
}

func NewHandler(s3client *minio.Client, bucketName, region string) {
	Instance = NewInstance(s3client, bucketName, region)
}

func NewInstance(s3client *minio.Client, bucketName, region string) Provider {
	return &impl{
		s3client:   s3client,
		bucketName: bucketName,
		region:     region,
	}
}

func (i impl) Upload(ctx context.Context, objectID string, file []byte, contentType string) error {
	if i.s3client == nil {
		return ErrNotConfigured
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := i.s3client.PutObject(ctx, i.bucketName, objectID, bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}
	return nil
}

func (i impl) Get(ctx context.Context, objectID string) ([]byte, error) {
	if i.s3client == nil {
		return nil, ErrNotConfigured
	}
	object, err := i.s3client.GetObject(ctx, i.bucketName, objectID, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "ошибка получения файла из хранилища")
	}
	defer object.Close()
	data, err := io.ReadAll(object)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return data, nil
}

func (i impl) Delete(ctx context.Context, objectID string) error {
	if i.s3client == nil {
		return ErrNotConfigured
	}
	err := i.s3client.RemoveObject(ctx, i.bucketName, objectID, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, "ошибка удаления файла из хранилища")
	}
	return nil
}

func (i impl) MakeBucket(ctx context.Context) error {
	if i.s3client == nil {
		return ErrNotConfigured
	}
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: i.region})
}
