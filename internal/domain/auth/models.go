package auth

import "time"

const AccountTypeStandard = "standard"

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	AccountType string    `json:"accountType"`
	CreatedAt   time.Time `json:"createdAt"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}
