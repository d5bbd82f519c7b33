package model

import "gorm.io/datatypes"

// PropertyGroup is a logical grouping of properties, e.g. "Shopping Centers"
// or "Apartment Complexes".
type PropertyGroup struct {
	BaseModel
	Name string `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (PropertyGroup) TableName() string {
	return "t_property_group"
}

// Property is an individual property, optionally linked to a PropertyGroup.
type Property struct {
	BaseModel
	PropertyGroupID *uint64        `gorm:"column:property_group_id;index" json:"propertyGroupId"`
	PropertyGroup   *PropertyGroup `gorm:"foreignKey:PropertyGroupID" json:"propertyGroup,omitempty"`
	Name            string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Subdomain       *string        `gorm:"column:subdomain;uniqueIndex" json:"subdomain"` // lowercase letters, numbers, hyphens
	Theme           datatypes.JSON `gorm:"column:theme" json:"theme,omitempty"`
}

func (Property) TableName() string {
	return "t_property"
}

// PropertyRef is the compact property shape used in list/scope responses.
type PropertyRef struct {
	ID            uint64            `json:"id"`
	Name          string            `json:"name"`
	PropertyGroup *PropertyGroupRef `json:"property_group"`
}

type PropertyGroupRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
