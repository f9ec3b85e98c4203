package forms

import (
	"net/url"
	"regexp"
	"strings"
)

const maxUsernameLength = 150

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// LoginForm holds submitted credentials.
type LoginForm struct {
	Username string
	Password string
	Next     string
	Errors   Errors
}

// BindLoginForm reads the login fields from submitted values.
func BindLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
		Next:     values.Get("next"),
		Errors:   Errors{},
	}
}

// Validate checks that both fields are present.
func (f *LoginForm) Validate() bool {
	if f.Username == "" {
		f.Errors.Add("username", msgRequired)
	}
	if f.Password == "" {
		f.Errors.Add("password", msgRequired)
	}
	return !f.Errors.Any()
}

// SignupForm holds the fields for a new account.
type SignupForm struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
	Password2 string
	Errors    Errors
}

// BindSignupForm reads the signup fields from submitted values.
func BindSignupForm(values url.Values) *SignupForm {
	return &SignupForm{
		Username:  strings.TrimSpace(values.Get("username")),
		FirstName: strings.TrimSpace(values.Get("first_name")),
		LastName:  strings.TrimSpace(values.Get("last_name")),
		Password:  values.Get("password1"),
		Password2: values.Get("password2"),
		Errors:    Errors{},
	}
}

// Validate checks the username format and that both passwords match.
// Password strength is checked by the authenticator.
func (f *SignupForm) Validate() bool {
	switch {
	case f.Username == "":
		f.Errors.Add("username", msgRequired)
	case len(f.Username) > maxUsernameLength:
		f.Errors.Add("username", "Ensure this value has at most 150 characters.")
	case !usernamePattern.MatchString(f.Username):
		f.Errors.Add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	if f.Password == "" {
		f.Errors.Add("password1", msgRequired)
	}
	if f.Password != f.Password2 {
		f.Errors.Add("password2", "The two password fields didn't match.")
	}
	return !f.Errors.Any()
}
