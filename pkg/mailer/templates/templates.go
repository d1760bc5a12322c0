package templates

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

// Template names
const (
	VerifyEmail = "verify_email"
	Welcome     = "welcome"
)

const verifyEmailSubject = "Your verification code"

const verifyEmailText = `Hi {{.Username}},

Your email verification code is {{.Code}}.
It expires in {{.ExpiresMinutes}} minutes. If you did not request this, ignore this email.
`

const verifyEmailHTML = `<html><body>
<p>Hi {{.Username}},</p>
<p>Your email verification code is <strong>{{.Code}}</strong>.</p>
<p>It expires in {{.ExpiresMinutes}} minutes. If you did not request this, ignore this email.</p>
</body></html>`

const welcomeSubject = "Welcome aboard"

const welcomeText = `Hi {{.Username}},

Your account is ready. You signed in with {{.Provider}}.
`

const welcomeHTML = `<html><body>
<p>Hi {{.Username}},</p>
<p>Your account is ready. You signed in with {{.Provider}}.</p>
</body></html>`

type tplSet struct {
	subject string
	text    *texttpl.Template
	html    *htmltpl.Template
}

var registry = map[string]tplSet{
	VerifyEmail: {
		subject: verifyEmailSubject,
		text:    texttpl.Must(texttpl.New(VerifyEmail).Parse(verifyEmailText)),
		html:    htmltpl.Must(htmltpl.New(VerifyEmail).Parse(verifyEmailHTML)),
	},
	Welcome: {
		subject: welcomeSubject,
		text:    texttpl.Must(texttpl.New(Welcome).Parse(welcomeText)),
		html:    htmltpl.Must(htmltpl.New(Welcome).Parse(welcomeHTML)),
	},
}

// Render renders the named template and returns subject, text and HTML bodies.
func Render(name string, data map[string]any) (string, string, string, error) {
	set, ok := registry[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var text, html bytes.Buffer
	if err := set.text.Execute(&text, data); err != nil {
		return "", "", "", err
	}
	if err := set.html.Execute(&html, data); err != nil {
		return "", "", "", err
	}
	return set.subject, text.String(), html.String(), nil
}
