package entity

import (
	"time"

	"github.com/ovaphlow/pitchfork/service-adboard/internal/query"
)

// User represents a row in the `users` table. Password holds the bcrypt hash,
// never the plain text.
type User struct {
	ID               int64     `db:"id"`
	Name             string    `db:"name"`
	Password         string    `db:"password"`
	RegistrationTime time.Time `db:"registration_time"`
}

// UserView is the public projection of a user; the password is never exposed.
type UserView struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	RegistrationTime time.Time `json:"registration_time"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, RegistrationTime: u.RegistrationTime}
}

// UserFilter holds the optional search filters; nil fields are not filtered on.
type UserFilter struct {
	ID               *int64
	Name             *string
	RegistrationTime *time.Time
}

// Conds lists the filter as equality conditions, one per filterable column.
func (f UserFilter) Conds() []query.Cond {
	return []query.Cond{
		query.Eq("id", f.ID),
		query.Eq("name", f.Name),
		query.Eq("registration_time", f.RegistrationTime),
	}
}

// Patchable user fields. password is stored as given here; the service
// re-hashes it after the changes are applied.
var UserFields = query.Fields[User]{
	"name":     query.String("name", "min=1,max=120", func(u *User, v string) { u.Name = v }),
	"password": query.String("password", "min=8,max=72,maxbytes=72", func(u *User, v string) { u.Password = v }),
}
