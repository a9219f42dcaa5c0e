package specification

import "gorm.io/gorm"

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type ByManufacturer struct {
	Manufacturer string
}

func (s ByManufacturer) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("manufacturer ILIKE ?", "%"+s.Manufacturer+"%")
}

type ByFocus struct {
	Focus string
}

func (s ByFocus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("focus ILIKE ?", "%"+s.Focus+"%")
}

type ByMaxPrice struct {
	PriceUSD float64
}

func (s ByMaxPrice) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price_usd > 0 AND price_usd <= ?", s.PriceUSD)
}

type ByMinCargo struct {
	SCU int
}

func (s ByMinCargo) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("cargo_capacity >= ?", s.SCU)
}
