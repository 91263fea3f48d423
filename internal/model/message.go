package model

import "time"

type Message struct {
	ID        int64     `json:"message_id"`
	Subject   string    `json:"message_subject"`
	Body      string    `json:"message_body"`
	Created   time.Time `json:"message_created"`
	To        int64     `json:"message_to"`
	From      int64     `json:"message_from"`
	Read      bool      `json:"message_read"`
	Archived  bool      `json:"message_archived"`

	// Sender fields, joined on read.
	FromFirstName string      `json:"account_firstname"`
	FromLastName  string      `json:"account_lastname"`
	FromType      AccountType `json:"account_type"`
}
