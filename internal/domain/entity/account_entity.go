package entity

// Account is the inverse side of the user/account membership.
// Users mirrors user_accounts but is never written through the account itself.
type Account struct {
	ID    int64
	Name  string
	Type  string
	Users IDSet
}

// NewAccount returns an account with an empty, non-nil user set.
func NewAccount(name, accountType string) *Account {
	return &Account{Name: name, Type: accountType, Users: IDSet{}}
}
