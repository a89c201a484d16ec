package model

import "gorm.io/gorm"

// Submission stores one respondent's answers against a published form
// version. Content is the JSON answer payload captured at submit time.
type Submission struct {
	gorm.Model
	ID          string `gorm:"primaryKey;uuid;not null;"`
	FormID      string `gorm:"uuid;not null;index"`
	FormVersion string
	SubmitterID string `gorm:"index"` // empty for anonymous submissions
	Content     string `gorm:"not null"`
}

func CreateSubmission(db *gorm.DB, submission *Submission) error {
	return db.Create(submission).Error
}

func GetSubmission(db *gorm.DB, id string) (*Submission, error) {
	submission := &Submission{}
	err := db.Where("id = ?", id).First(submission).Error
	if err != nil {
		return nil, err
	}

	return submission, nil
}

func GetSubmissions(db *gorm.DB, formID string) ([]*Submission, error) {
	submissions := make([]*Submission, 0)
	err := db.Where("form_id = ?", formID).Order("created_at asc").Find(&submissions).Error
	if err != nil {
		return nil, err
	}

	return submissions, nil
}

func CountSubmissions(db *gorm.DB, formID string) (int64, error) {
	var count int64
	err := db.Model(&Submission{}).Where("form_id = ?", formID).Count(&count).Error
	return count, err
}
