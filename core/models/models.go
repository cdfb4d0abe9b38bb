package models

import "time"

// Station is a fuel retail location identified by its provider code.
// Rows are inserted once and never updated.
type Station struct {
	Code      string   `gorm:"column:code;primaryKey;size:64" json:"code"`
	Name      string   `gorm:"column:name;size:255" json:"name"`
	Brand     string   `gorm:"column:brand;size:128" json:"brand"`
	Address   string   `gorm:"column:address;size:512" json:"address"`
	Latitude  *float64 `gorm:"column:latitude" json:"latitude"`
	Longitude *float64 `gorm:"column:longitude" json:"longitude"`
}

func (Station) TableName() string {
	return "stations"
}

// Price is one fuel price reading captured by a pipeline run.
type Price struct {
	ID          uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StationCode string     `gorm:"column:station_code;size:64;not null;index" json:"station_code"`
	FuelType    string     `gorm:"column:fuel_type;size:32;index" json:"fuel_type"`
	Price       float64    `gorm:"column:price" json:"price"`
	LastUpdated *time.Time `gorm:"column:last_updated" json:"last_updated"`
	CapturedAt  time.Time  `gorm:"column:captured_at;not null;index" json:"captured_at"`
}

func (Price) TableName() string {
	return "prices"
}

// All lists every model managed by migrations.
func All() []any {
	return []any{&Station{}, &Price{}}
}
