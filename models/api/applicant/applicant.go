package applicantapimodels

import (
	"net/mail"
	"recruit-pipeline-backend/lib/errs"
	dbmodels "recruit-pipeline-backend/models/db"
	"time"
)

type ApplicantData struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

func (a ApplicantData) Validate() error {
	v := errs.Validation{}
	v.Check(a.FirstName != "", "не указано имя кандидата")
	v.Check(a.LastName != "", "не указана фамилия кандидата")
	if a.Email != "" {
		_, err := mail.ParseAddress(a.Email)
		v.Check(err == nil, "некорректный email кандидата: %v", a.Email)
	}
	return v.Err()
}

type ApplicantView struct {
	ID        string    `json:"id"`
	FIO       string    `json:"fio"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func ApplicantConvert(rec dbmodels.Applicant) ApplicantView {
	return ApplicantView{
		ID:        rec.ID,
		FIO:       rec.GetFIO(),
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     rec.Email,
		Phone:     rec.Phone,
		CreatedAt: rec.CreatedAt,
	}
}
