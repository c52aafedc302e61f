package model

import (
	"time"
	"tms/shared/model"
)

const (
	TableName  = "guides"
	EntityName = "guide"

	FieldID            = "id"
	FieldFullName      = "full_name"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldLanguages     = "languages"
	FieldAvailableFrom = "available_from"
	FieldAvailableTo   = "available_to"
)

// Guide is the directory record of a registered tour guide. This core only
// reads it; registration and profile editing live elsewhere.
type Guide struct {
	ID            string    `db:"id"`
	FullName      string    `db:"full_name"`
	Email         string    `db:"email"`
	Phone         string    `db:"phone"`
	Languages     string    `db:"languages"`
	AvailableFrom time.Time `db:"available_from"`
	AvailableTo   time.Time `db:"available_to"`
	model.Metadata
}
