package email

import (
	"bytes"
	"fmt"
	"html/template"
)

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!doctype html>
<html lang="pt-BR">
<body style="font-family: sans-serif; background: #111; color: #eee; padding: 24px;">
  <h1 style="color: #c9a227;">Bem-vindo ao Batalhão, {{.Name}}!</h1>
  <p>Seu cadastro foi recebido com a patente <strong>{{.Patente}}</strong>.</p>
  <p>Acesse o painel em <a href="{{.PanelURL}}" style="color: #c9a227;">{{.PanelURL}}</a>.</p>
  <p style="font-size: 12px; color: #888;">Se você não criou esta conta, ignore este e-mail.</p>
</body>
</html>
`))

// WelcomeData fills the welcome message.
type WelcomeData struct {
	Name     string
	Patente  string
	PanelURL string
}

// WelcomeMessage builds the message sent after self-registration.
func WelcomeMessage(to string, data WelcomeData) (SendRequest, error) {
	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, data); err != nil {
		return SendRequest{}, fmt.Errorf("render welcome: %w", err)
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Bem-vindo ao Batalhão",
		HTML:    buf.String(),
	}, nil
}
