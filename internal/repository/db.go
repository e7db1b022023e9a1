package repository

import "gorm.io/gorm"

// conn picks the open transaction when there is one.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func pageOffset(page, limit int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
