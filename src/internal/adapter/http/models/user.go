package models

import (
	"errors"
	"strings"
)

type RegisterUserRequest struct {
	Username  string `json:"username"`
	AccessKey string `json:"accessKey"`
}

func (r RegisterUserRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Username) == "" {
		errs = append(errs, "username is required")
	}
	if len(r.AccessKey) < 8 {
		errs = append(errs, "accessKey must be at least 8 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
