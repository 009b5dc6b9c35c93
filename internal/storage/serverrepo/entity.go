package serverrepo

import (
	"time"

	"github.com/bbrhub/mailblast/pkg/mailclient"
	"github.com/segmentio/encoding/json"
)

// Server is one stored submission endpoint. Config holds the JSON-encoded
// profile so new connection options never need a schema change.
type Server struct {
	ID        int64     `json:"id" db:"id" validate:"-"` // primary key
	Name      string    `json:"name" db:"name" validate:"required"`
	Config    string    `json:"config" db:"config" validate:"required"`
	BuiltIn   bool      `json:"built_in" db:"built_in" validate:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at" validate:"-"`
}

// Profile decodes the stored config blob.
func (s Server) Profile() (profile mailclient.ServerProfile, err error) {
	err = json.Unmarshal([]byte(s.Config), &profile)
	return
}

// builtinProfiles are the provider presets installed on first run. Detection
// by sender domain only works for providers with a fixed mail domain; the
// enterprise endpoints serve custom domains and stay manual.
func builtinProfiles() []mailclient.ServerProfile {
	return []mailclient.ServerProfile{
		{Name: "qq", Host: "smtp.qq.com", Port: 465, UseSSL: true, Domains: []string{"qq.com", "vip.qq.com", "foxmail.com"}},
		{Name: "qq-exmail", Host: "smtp.exmail.qq.com", Port: 465, UseSSL: true},
		{Name: "163", Host: "smtp.163.com", Port: 465, UseSSL: true, Domains: []string{"163.com"}},
		{Name: "126", Host: "smtp.126.com", Port: 465, UseSSL: true, Domains: []string{"126.com"}},
		{Name: "gmail", Host: "smtp.gmail.com", Port: 587, UseTLS: true, Domains: []string{"gmail.com"}},
		{Name: "outlook", Host: "smtp.office365.com", Port: 587, UseTLS: true, Domains: []string{"outlook.com", "hotmail.com", "live.com"}},
		{Name: "icloud", Host: "smtp.mail.me.com", Port: 587, UseTLS: true, Domains: []string{"icloud.com", "me.com", "mac.com"}},
		{Name: "aliyun", Host: "smtp.aliyun.com", Port: 465, UseSSL: true, Domains: []string{"aliyun.com"}},
	}
}
