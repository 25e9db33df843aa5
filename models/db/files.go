package dbmodels

type ApplicantDocument struct {
	BaseModel
	ApplicantID string `gorm:"type:varchar(36);index"`
	TaskID      string `gorm:"type:varchar(36);index"`
	Name        string
	ContentType string
	Size        int64
	UploadedBy  string `gorm:"type:varchar(36)"`
}
