package specification

import "gorm.io/gorm"

// Specification narrows, orders or pages a query. The in-memory store interprets the
// concrete types in this package directly, so new specifications need a matching case there.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
