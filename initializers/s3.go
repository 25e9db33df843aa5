package initializers

import (
	"context"
	"recruit-pipeline-backend/config"
	filestorage "recruit-pipeline-backend/lib/file-storage"
	s3client "recruit-pipeline-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	err := s3client.Connect(ctx, config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
	if err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3, загрузка документов недоступна")
		filestorage.NewHandler(nil, config.Conf.S3.BucketName, config.Conf.S3.Region)
		return
	}
	filestorage.NewHandler(s3client.Client, config.Conf.S3.BucketName, config.Conf.S3.Region)
	if err = filestorage.Instance.MakeBucket(ctx); err != nil {
		log.WithError(err).Error("Ошибка создания бакета для документов кандидатов")
		return
	}
	log.Info("S3 клиент успешно инициализирован")
}
