package model

import "time"

type NotificationChannel string

const (
	NotificationChannelSMS   NotificationChannel = "sms"
	NotificationChannelEmail NotificationChannel = "email"
)

// Notification 待寄送的簡訊或郵件
type Notification struct {
	ID        string              `json:"id"`
	Channel   NotificationChannel `json:"channel"`
	To        string              `json:"to"`
	Subject   string              `json:"subject,omitempty"`
	Text      string              `json:"text"`
	HTML      string              `json:"html,omitempty"`
	Attempts  int                 `json:"attempts"`
	CreatedAt time.Time           `json:"createdAt"`
}
