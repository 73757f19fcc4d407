package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultUsers is the credential table used when none is configured.
const DefaultUsers = "admin:admin123,doctor:doc123,nurse:nurse123,akhila:mypassword"

// AdminUser is the account that gets the administrator role.
const AdminUser = "admin"

var ErrInvalidCredentials = errors.New("invalid username or password")

// Users is a static username → password table.
type Users map[string]string

// ParseUsers parses "user:pass,user:pass". Whitespace around entries is
// ignored; passwords may contain ':'.
func ParseUsers(raw string) (Users, error) {
	users := make(Users)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, pass, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || pass == "" {
			return nil, fmt.Errorf("invalid user entry %q: want user:password", entry)
		}
		if _, dup := users[name]; dup {
			return nil, fmt.Errorf("duplicate user %q", name)
		}
		users[name] = pass
	}
	if len(users) == 0 {
		return nil, errors.New("no users configured")
	}
	return users, nil
}

// Authenticate checks a username/password pair. Unknown users still pay
// for a comparison.
func (u Users) Authenticate(username, password string) error {
	want, ok := u[username]
	if !ok {
		want = "\x00"
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(password)) != 1 || !ok {
		return ErrInvalidCredentials
	}
	return nil
}

// Names returns the configured usernames in sorted order.
func (u Users) Names() []string {
	names := make([]string, 0, len(u))
	for n := range u {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RoleFor maps a username to its display role.
func RoleFor(username string) string {
	if username == AdminUser {
		return "Administrator"
	}
	return "User"
}
