package scope

import "gorm.io/gorm"

func OrderByCreatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC")
}

// OrderByEffectiveDateDesc lists price history newest change first.
func OrderByEffectiveDateDesc(db *gorm.DB) *gorm.DB {
	return db.Order("effective_date DESC").Order("created_at DESC")
}
