package domain

import "time"

type User struct {
	ID            string
	Username      string
	AccessKeyHash string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
