package db

import "time"

// Constituency is the upper level of the county's electoral geography.
type Constituency struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `gorm:"column:name;type:varchar(100);uniqueIndex;not null" json:"name"`
	Order     int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	Wards     []Ward    `gorm:"foreignKey:ConstituencyID" json:"wards,omitempty"`
}

func (Constituency) TableName() string {
	return "constituencies"
}

// Ward belongs to exactly one constituency; names are unique within it.
type Ward struct {
	ID             uint          `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	ConstituencyID uint          `gorm:"column:constituency_id;not null;uniqueIndex:idx_ward_constituency_name" json:"constituency_id"`
	Constituency   *Constituency `gorm:"foreignKey:ConstituencyID" json:"constituency,omitempty"`
	Name           string        `gorm:"column:name;type:varchar(100);not null;uniqueIndex:idx_ward_constituency_name" json:"name"`
	Order          int           `gorm:"column:sort_order;not null;default:0" json:"order"`
}

func (Ward) TableName() string {
	return "wards"
}
