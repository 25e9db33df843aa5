package applicant

import (
	"recruit-pipeline-backend/db"
	applicantstore "recruit-pipeline-backend/lib/applicant/store"
	"recruit-pipeline-backend/lib/errs"
	applicantapimodels "recruit-pipeline-backend/models/api/applicant"
	dbmodels "recruit-pipeline-backend/models/db"

	log "github.com/sirupsen/logrus"
)

type Provider interface {
	Create(data applicantapimodels.ApplicantData) (applicantapimodels.ApplicantView, error)
	GetByID(id string) (applicantapimodels.ApplicantView, error)
	List(search string) ([]applicantapimodels.ApplicantView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(applicantstore.NewInstance(db.DB))
}

func NewInstance(store applicantstore.Provider) Provider {
	return impl{
		store: store,
	}
}

type impl struct {
	store applicantstore.Provider
}

func (i impl) Create(data applicantapimodels.ApplicantData) (applicantapimodels.ApplicantView, error) {
	if err := data.Validate(); err != nil {
		return applicantapimodels.ApplicantView{}, err
	}
	rec, err := i.store.Create(dbmodels.Applicant{
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Email:     data.Email,
		Phone:     data.Phone,
	})
	if err != nil {
		return applicantapimodels.ApplicantView{}, errs.Dependency(err, "ошибка создания кандидата")
	}
	log.WithField("applicant_id", rec.ID).Info("создан кандидат")
	return applicantapimodels.ApplicantConvert(*rec), nil
}

func (i impl) GetByID(id string) (applicantapimodels.ApplicantView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return applicantapimodels.ApplicantView{}, errs.Dependency(err, "ошибка получения кандидата")
	}
	if rec == nil {
		return applicantapimodels.ApplicantView{}, errs.NewNotFound("кандидат", id)
	}
	return applicantapimodels.ApplicantConvert(*rec), nil
}

func (i impl) List(search string) ([]applicantapimodels.ApplicantView, error) {
	list, err := i.store.List(search)
	if err != nil {
		return nil, errs.Dependency(err, "ошибка получения списка кандидатов")
	}
	result := make([]applicantapimodels.ApplicantView, 0, len(list))
	for _, rec := range list {
		result = append(result, applicantapimodels.ApplicantConvert(rec))
	}
	return result, nil
}
