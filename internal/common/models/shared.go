package models

import (
	"time"
)

// Log is a persisted console log line.
type Log struct {
	AppID     string    `bson:"app_id" json:"app_id"`
	Level     string    `bson:"level" json:"level"`
	Message   string    `bson:"message" json:"message"`
	Caller    string    `bson:"caller" json:"caller"`
	SessionID string    `bson:"session_id,omitempty" json:"session_id,omitempty"`
	IpAddress string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	AdminID   string    `bson:"admin_id,omitempty" json:"admin_id,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message shown to the admin (a toast).
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Screen  string      `json:"screen,omitempty"`
	Message string      `json:"message"`
}

// AccessDenied is the static body that replaces a blocked screen.
type AccessDenied struct {
	Screen  string `json:"screen"`
	Module  string `json:"module"`
	Blocked bool   `json:"blocked"`
	Message string `json:"message"`
}

const AccessDeniedMessage = "You do not have access to this module"
