package entity

// User is the owning side of the user/account membership.
// Accounts is written to the user_accounts join table whenever the user is saved.
type User struct {
	ID       int64
	Email    string
	Name     string
	Surname  string
	Accounts IDSet
}

// NewUser returns a user with an empty, non-nil account set.
func NewUser(email, name, surname string) *User {
	return &User{Email: email, Name: name, Surname: surname, Accounts: IDSet{}}
}
