package model

// Campaign is owned by the campaign subsystem; the access-control engine
// only needs its identity and property linkage to compute visibility.
type Campaign struct {
	BaseModel
	PropertyID uint64 `gorm:"column:property_id;not null;index" json:"propertyId"`
	UserID     uint64 `gorm:"column:user_id;not null;index" json:"userId"`
	Name       string `gorm:"column:name" json:"name"`
}

func (Campaign) TableName() string {
	return "t_campaign"
}
