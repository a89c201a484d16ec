package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Form{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&PublishedForm{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Submission{}); err != nil {
		return err
	}

	return nil
}
