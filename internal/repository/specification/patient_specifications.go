package specification

import "gorm.io/gorm"

// NameContains matches patients whose name contains the given fragment,
// case-insensitive. Partial matches are intentional: callers disambiguate
// when more than one record comes back.
type NameContains struct {
	Name string
}

func (s NameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name ILIKE ?", "%"+s.Name+"%")
}

// BySource filters knowledge chunks by their originating document.
type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}
