package models

import (
	"gorm.io/gorm"
)

// BkashSettings is the single active gateway configuration. Every save bumps
// Version and appends a BkashSettingsHistory row so credential changes
// between sandbox and production are traceable.
type BkashSettings struct {
	gorm.Model
	Mode    string `gorm:"column:mode;size:20;not null;default:sandbox" json:"mode"`
	Version int    `gorm:"column:version;not null;default:1" json:"version"`

	SandboxAppKey    string `gorm:"column:sandbox_app_key;size:255" json:"sandbox_app_key"`
	SandboxAppSecret string `gorm:"column:sandbox_app_secret;size:255" json:"sandbox_app_secret"`
	SandboxUsername  string `gorm:"column:sandbox_username;size:255" json:"sandbox_username"`
	SandboxPassword  string `gorm:"column:sandbox_password;size:255" json:"sandbox_password"`
	SandboxBaseURL   string `gorm:"column:sandbox_base_url;size:255" json:"sandbox_base_url"`

	ProductionAppKey    string `gorm:"column:production_app_key;size:255" json:"production_app_key"`
	ProductionAppSecret string `gorm:"column:production_app_secret;size:255" json:"production_app_secret"`
	ProductionUsername  string `gorm:"column:production_username;size:255" json:"production_username"`
	ProductionPassword  string `gorm:"column:production_password;size:255" json:"production_password"`
	ProductionBaseURL   string `gorm:"column:production_base_url;size:255" json:"production_base_url"`
}

func (BkashSettings) TableName() string {
	return "bkash_settings"
}

type BkashSettingsHistory struct {
	gorm.Model
	SettingsID uint   `gorm:"column:settings_id;not null" json:"settings_id"`
	Version    int    `gorm:"column:version;not null" json:"version"`
	Mode       string `gorm:"column:mode;size:20;not null" json:"mode"`
	ChangedBy  uint   `gorm:"column:changed_by" json:"changed_by"`
	Snapshot   string `gorm:"column:snapshot;type:text;not null" json:"snapshot"`
}

func (BkashSettingsHistory) TableName() string {
	return "bkash_settings_history"
}

type ContactSettings struct {
	gorm.Model
	Phone              string  `gorm:"column:phone;size:50" json:"phone"`
	Email              string  `gorm:"column:email;size:255" json:"email"`
	FacebookURL        string  `gorm:"column:facebook_url;size:255" json:"facebook_url"`
	YoutubeURL         string  `gorm:"column:youtube_url;size:255" json:"youtube_url"`
	OfficeAddress      string  `gorm:"column:office_address;type:text" json:"office_address"`
	OutsideCityFee     float64 `gorm:"column:outside_city_fee;default:100" json:"outside_city_fee"`
	AmbulanceHotline   string  `gorm:"column:ambulance_hotline;size:50" json:"ambulance_hotline"`
	AppointmentHotline string  `gorm:"column:appointment_hotline;size:50" json:"appointment_hotline"`
}

func (ContactSettings) TableName() string {
	return "contact_settings"
}

// SerialTypeSetting describes one bookable serial block for a day, e.g. the
// morning chamber runs serials 1-30.
type SerialTypeSetting struct {
	gorm.Model
	Name        string `gorm:"column:name;size:50;uniqueIndex;not null" json:"name"`
	Label       string `gorm:"column:label;size:100" json:"label"`
	StartSerial int    `gorm:"column:start_serial;not null;default:1" json:"start_serial"`
	MaxSerials  int    `gorm:"column:max_serials;not null;default:50" json:"max_serials"`
	Active      bool   `gorm:"column:active;default:true" json:"active"`
}

func (SerialTypeSetting) TableName() string {
	return "serial_type_settings"
}

type AdSettings struct {
	gorm.Model
	Enabled                 bool   `gorm:"column:enabled;default:false" json:"enabled"`
	DelaySeconds            int    `gorm:"column:delay_seconds;default:5" json:"delay_seconds"`
	ShowOncePerSession      bool   `gorm:"column:show_once_per_session;default:true" json:"show_once_per_session"`
	ShowCloseButton         bool   `gorm:"column:show_close_button;default:true" json:"show_close_button"`
	CloseButtonDelaySeconds int    `gorm:"column:close_button_delay_seconds;default:0" json:"close_button_delay_seconds"`
	DesktopImageURL         string `gorm:"column:desktop_image_url;size:255" json:"desktop_image_url"`
	MobileImageURL          string `gorm:"column:mobile_image_url;size:255" json:"mobile_image_url"`
	LinkURL                 string `gorm:"column:link_url;size:255" json:"link_url"`
}

func (AdSettings) TableName() string {
	return "ad_settings"
}
