package model

import (
	"encoding/json"

	"gorm.io/gorm"
)

// PublishedForm is an immutable snapshot of a form at publish time.
// Respondents always see a snapshot; edits to the draft never leak into a
// live form until the owner republishes.
type PublishedForm struct {
	gorm.Model
	ID          string `gorm:"uuid;primaryKey"`
	Version     string `gorm:"primaryKey"` // semantic versioning
	OwnerID     string `gorm:"uuid;not null;index"`
	Title       string
	Content     string
	Compression string
	Unpublished bool `gorm:"default:false"`
}

func CreatePublishedForm(db *gorm.DB, form *PublishedForm) error {
	return db.Create(form).Error
}

func GetPublishedForm(db *gorm.DB, id, version string) (*PublishedForm, error) {
	form := &PublishedForm{}
	err := db.Where("id = ? AND version = ?", id, version).First(form).Error
	if err != nil {
		return nil, err
	}

	return form, nil
}

// GetLatestPublishedForm returns the newest live snapshot for the form.
func GetLatestPublishedForm(db *gorm.DB, id string) (*PublishedForm, error) {
	form := &PublishedForm{}
	err := db.Where("id = ? AND unpublished = ?", id, false).Order("created_at desc").First(form).Error
	if err != nil {
		return nil, err
	}

	return form, nil
}

func GetPublishedVersions(db *gorm.DB, id string) ([]*PublishedForm, error) {
	forms := make([]*PublishedForm, 0)
	err := db.Where("id = ?", id).Order("created_at desc").Find(&forms).Error
	if err != nil {
		return nil, err
	}

	return forms, nil
}

// UnpublishForm retires every live snapshot of the form.
func UnpublishForm(db *gorm.DB, id string) error {
	return db.Model(&PublishedForm{}).Where("id = ?", id).Update("unpublished", true).Error
}

func (p *PublishedForm) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}
