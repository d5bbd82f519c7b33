package model

// App is a registered downstream application that accepts this service's
// SSO tokens.
type App struct {
	BaseModel
	Name     string `gorm:"column:name;not null" json:"name"`
	Slug     string `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	IsActive bool   `gorm:"column:is_active;default:true" json:"isActive"`
}

func (App) TableName() string {
	return "t_app"
}

// UserAppAccess grants a user access to an app. Superusers implicitly have
// access to every app and carry no rows here.
type UserAppAccess struct {
	BaseModel
	UserID uint64 `gorm:"column:user_id;not null;uniqueIndex:uq_user_app" json:"userId"`
	AppID  uint64 `gorm:"column:app_id;not null;uniqueIndex:uq_user_app" json:"appId"`
}

func (UserAppAccess) TableName() string {
	return "t_user_app_access"
}
