package otp

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/petim7277/Qonnect-sub000/internal/domain"
)

type message struct {
	subject string
	body    *template.Template
}

type messageData struct {
	Name    string
	Code    string
	Minutes int
}

var messages = map[domain.OtpType]message{
	domain.OtpVerification: {
		subject: "Verify your Qonnect account",
		body: template.Must(template.New("verification").Parse(`Hi {{.Name}},

Your Qonnect verification code is {{.Code}}.
It expires in {{.Minutes}} minutes.

If you did not create an account you can ignore this email.
`)),
	},
	domain.OtpResetPassword: {
		subject: "Reset your Qonnect password",
		body: template.Must(template.New("reset_password").Parse(`Hi {{.Name}},

Use the code {{.Code}} to reset your Qonnect password.
It expires in {{.Minutes}} minutes.

If you did not ask for a reset, nobody can change your password without this code.
`)),
	},
}

func render(typ domain.OtpType, data messageData) (subject, body string, err error) {
	m, ok := messages[typ]
	if !ok {
		return "", "", fmt.Errorf("no email template for otp type %s", typ)
	}
	var buf bytes.Buffer
	if err := m.body.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render %s email: %w", typ, err)
	}
	return m.subject, buf.String(), nil
}
