package views

import (
	"context"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mmynk/inkwell/internal/forms"
)

// LoginPage is the sign-in form.
type LoginPage struct {
	Form *forms.LoginForm
}

func (p *LoginPage) Template() string { return "auth/login" }
func (p *LoginPage) Title() string    { return "Log in" }

func (p *LoginPage) Body() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(w)
		h.raw(`<section class="auth"><h1>Log in</h1><form method="post" action="/auth/login/">`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("")))
		h.raw(`<input type="hidden" name="next" value="`)
		h.attr(p.Form.Next)
		h.raw(`"><label for="id_username">Username</label><input type="text" name="username" id="id_username" value="`)
		h.attr(p.Form.Username)
		h.raw(`" required>`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("username")))
		h.raw(`<label for="id_password">Password</label><input type="password" name="password" id="id_password" required>`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("password")))
		h.raw(`<button type="submit">Log in</button></form><p><a href="/auth/signup/">Create an account</a></p></section>`)
		return h.err
	})
}

// SignupPage is the registration form.
type SignupPage struct {
	Form *forms.SignupForm
}

func (p *SignupPage) Template() string { return "auth/signup" }
func (p *SignupPage) Title() string    { return "Sign up" }

func (p *SignupPage) Body() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(w)
		h.raw(`<section class="auth"><h1>Sign up</h1><form method="post" action="/auth/signup/">`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("")))
		for _, f := range []struct{ name, label, value string }{
			{"first_name", "First name", p.Form.FirstName},
			{"last_name", "Last name", p.Form.LastName},
			{"username", "Username", p.Form.Username},
		} {
			h.raw(`<label for="id_` + f.name + `">` + f.label + `</label>`)
			h.raw(`<input type="text" name="` + f.name + `" id="id_` + f.name + `" value="`)
			h.attr(f.value)
			h.raw(`">`)
			h.component(ctx, fieldErrors(p.Form.Errors.Get(f.name)))
		}
		h.raw(`<label for="id_password1">Password</label><input type="password" name="password1" id="id_password1" required>`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("password1")))
		h.raw(`<label for="id_password2">Confirm password</label><input type="password" name="password2" id="id_password2" required>`)
		h.component(ctx, fieldErrors(p.Form.Errors.Get("password2")))
		h.raw(`<button type="submit">Sign up</button></form></section>`)
		return h.err
	})
}

// ErrorPage is shown for 404 and 5xx responses.
type ErrorPage struct {
	Status int
}

func (p *ErrorPage) Template() string { return "core/error" }
func (p *ErrorPage) Title() string    { return http.StatusText(p.Status) }

func (p *ErrorPage) Body() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(w)
		h.raw(`<section class="error"><h1>`)
		h.number(p.Status)
		h.raw(` `)
		h.text(http.StatusText(p.Status))
		h.raw(`</h1>`)
		if p.Status == http.StatusNotFound {
			h.raw(`<p>The page you requested does not exist.</p>`)
		} else {
			h.raw(`<p>Something went wrong on our side.</p>`)
		}
		h.raw(`<a href="/">Back to the front page</a></section>`)
		return h.err
	})
}
