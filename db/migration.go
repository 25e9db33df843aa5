package db

import (
	dbmodels "recruit-pipeline-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Applicant{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Applicant")
	}
	if err := DB.AutoMigrate(&dbmodels.StageDefinition{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры StageDefinition")
	}
	if err := DB.AutoMigrate(&dbmodels.StatusDefinition{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры StatusDefinition")
	}
	if err := DB.AutoMigrate(&dbmodels.TaskDefinition{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TaskDefinition")
	}
	if err := DB.AutoMigrate(&dbmodels.TaskInstance{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры TaskInstance")
	}
	if err := DB.AutoMigrate(&dbmodels.StageProgress{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры StageProgress")
	}
	if err := DB.AutoMigrate(&dbmodels.ApplicantStageCursor{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApplicantStageCursor")
	}
	if err := DB.AutoMigrate(&dbmodels.StageTransitionRule{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры StageTransitionRule")
	}
	if err := DB.AutoMigrate(&dbmodels.ApplicantDocument{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApplicantDocument")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
