package domain

import "time"

// User is a registered account. The name is the natural key: two users
// are the same user iff their names match, case-sensitive. Users are
// never mutated after sign-up and never deleted.
type User struct {
	Name      string `validate:"required"`
	Password  string `validate:"required"`
	CreatedAt time.Time
}

func NewUser(name, password string) (User, error) {
	u := User{
		Name:      name,
		Password:  password,
		CreatedAt: time.Now().UTC(),
	}
	if err := check(u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (u User) Equal(other User) bool {
	return u.Name == other.Name
}

func (u User) Contact() Contact {
	return Contact{Name: u.Name, Kind: KindUser}
}
