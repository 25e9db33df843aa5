package s3client

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client *minio.Client

// Connect клиент S3 для хранилища документов кандидатов
func Connect(ctx context.Context, endpoint, accessKeyID, secretAccessKey string, useSSL bool) error {
	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return err
	}
	// Проверка соединения
	if _, err = minioClient.ListBuckets(ctx); err != nil {
		return err
	}
	Client = minioClient
	return nil
}
