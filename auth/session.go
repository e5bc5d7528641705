package auth

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"obiabedidi/models"
)

// Session is what the client shows for the signed-in user.
type Session struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *models.User `json:"user,omitempty"`
	Initial         string       `json:"initial"`
	FirstName       string       `json:"firstName,omitempty"`
	PhotoURL        string       `json:"photoUrl,omitempty"`
	Greeting        string       `json:"greeting"`
}

func NewSession(u *models.User, at time.Time) Session {
	s := Session{Initial: "?", Greeting: Greeting(at.Hour())}
	if u == nil {
		return s
	}
	s.IsAuthenticated = true
	s.User = u
	s.Initial = Initial(u.DisplayName)
	s.FirstName = FirstName(u.DisplayName)
	s.PhotoURL = u.PhotoURL
	return s
}

// Initial is the upper-cased first letter of name, or "?".
func Initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func Greeting(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour == 12:
		return "Good noon"
	case hour > 12 && hour < 17:
		return "Good afternoon"
	case hour >= 17 && hour < 22:
		return "Good evening"
	default:
		return "Good night"
	}
}
