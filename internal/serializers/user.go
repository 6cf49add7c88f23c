package serializers

import (
	dbpkg "drilllog/internal/db"
)

// User is the public profile of an account.
type User struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

func NewUser(u *dbpkg.User) User {
	return User{
		ID:          u.ID,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DisplayName: u.DisplayName(),
		IsAdmin:     u.IsAdmin,
	}
}

func NewUsers(users []dbpkg.User) []User {
	out := make([]User, 0, len(users))
	for i := range users {
		out = append(out, NewUser(&users[i]))
	}
	return out
}

// ParseNewUser reads a user provisioning request and returns the user and
// its password.
func ParseNewUser(body []byte) (*dbpkg.User, string, error) {
	u := &dbpkg.User{}
	var password string
	fields := []field{
		{name: "username", dst: &u.Username, required: true, rules: "required,max=64"},
		{name: "password", dst: &password, required: true, rules: "required,min=8", verbatim: true},
		{name: "first_name", dst: &u.FirstName, rules: "max=150"},
		{name: "last_name", dst: &u.LastName, rules: "max=150"},
		{name: "is_admin", dst: &u.IsAdmin},
	}
	errs, err := bind(body, Create, fields, nil)
	if err != nil {
		return nil, "", err
	}
	if err := errs.Err(); err != nil {
		return nil, "", err
	}
	return u, password, nil
}

// Credentials is a login request.
type Credentials struct {
	Username string
	Password string
}

// ParseCredentials reads a login request.
func ParseCredentials(body []byte) (Credentials, error) {
	var c Credentials
	fields := []field{
		{name: "username", dst: &c.Username, required: true, rules: "required"},
		{name: "password", dst: &c.Password, required: true, rules: "required", verbatim: true},
	}
	errs, err := bind(body, Create, fields, nil)
	if err != nil {
		return c, err
	}
	return c, errs.Err()
}
