package model

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Form struct {
	gorm.Model
	ID          string `gorm:"primaryKey;uuid;not null;"`
	OwnerID     string `gorm:"uuid;not null;index"`
	Title       string `gorm:"not null"`
	Content     string `gorm:"not null"` // document tree, JSON
	Published   bool   `gorm:"default:false"`
	Compression string // codec used to compress the content column
}

func CreateForm(db *gorm.DB, form *Form) error {
	return db.Create(form).Error
}

func GetForm(db *gorm.DB, id string) (*Form, error) {
	form := &Form{}
	err := db.Where("id = ?", id).First(form).Error
	if err != nil {
		logrus.Errorf("Error getting form: %v", err)
		return nil, err
	}

	return form, nil
}

func GetForms(db *gorm.DB, ownerID string) ([]*Form, error) {
	forms := make([]*Form, 0)
	err := db.Where("owner_id = ?", ownerID).Order("created_at desc").Find(&forms).Error
	if err != nil {
		return nil, err
	}

	return forms, nil
}

func UpdateForm(db *gorm.DB, id string, form *Form) error {
	return db.Model(&Form{}).Where("id = ?", id).Updates(form).Error
}

func DeleteForm(db *gorm.DB, id string) error {
	return db.Where("id = ?", id).Delete(&Form{}).Error
}

func (f *Form) MarshalBinary() ([]byte, error) {
	return json.Marshal(f)
}
