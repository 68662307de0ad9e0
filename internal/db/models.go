package db

import "time"

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	TeamNumber  int32
	CreatedAt   time.Time
}

type Drawing struct {
	ID          string
	OwnerID     string
	TeamNumber  int32
	MatchNumber int32
	Kind        string
	Title       string
	Data        []byte
	EntityCount int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
