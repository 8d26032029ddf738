package dto

import "time"

type Participant struct {
	UserID     string
	Name       string
	Email      string
	TelegramID *int64
	Visited    bool
	JoinedAt   time.Time
}
