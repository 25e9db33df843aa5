package dbmodels

import (
	"fmt"
	"strings"
)

type Applicant struct {
	BaseModel
	FirstName string `gorm:"type:varchar(100)"`
	LastName  string `gorm:"type:varchar(100)"`
	Email     string `gorm:"type:varchar(255)"`
	Phone     string `gorm:"type:varchar(50)"`
}

func (a Applicant) GetFIO() string {
	return strings.TrimSpace(fmt.Sprintf("%v %v", a.LastName, a.FirstName))
}
