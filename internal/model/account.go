package model

type AccountType string

const (
	AccountClient   AccountType = "Client"
	AccountEmployee AccountType = "Employee"
	AccountAdmin    AccountType = "Admin"
)

type Account struct {
	ID        int64       `json:"account_id"`
	FirstName string      `json:"account_firstname"`
	LastName  string      `json:"account_lastname"`
	Email     string      `json:"account_email"`
	Password  string      `json:"-"`
	Type      AccountType `json:"account_type"`
}

// AccountSummary is the minimal row used for administrative lists and
// recipient pickers.
type AccountSummary struct {
	ID        int64  `json:"account_id"`
	FirstName string `json:"account_firstname"`
	LastName  string `json:"account_lastname"`
}
