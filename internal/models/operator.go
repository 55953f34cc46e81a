package models

type Operator struct {
	Login        string `json:"login"`
	PasswordHash string `json:"-"`
}
