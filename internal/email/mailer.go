package email

import (
	"bytes"
	"html/template"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Dispatcher delivers notification emails. Implementations are best-effort:
// callers fire and forget, and a delivery failure must never surface into
// the request path.
type Dispatcher interface {
	SendWelcome(to, username string)
	SendPasswordReset(to, resetToken string)
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// FrontendURL is the base for links embedded in emails.
	FrontendURL string
	// Mock logs instead of sending (development default).
	Mock bool
}

type SMTPDispatcher struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	log    *zap.Logger
}

func NewSMTPDispatcher(cfg SMTPConfig, log *zap.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		log:    log,
	}
}

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<html><body>
<h2>Welcome to PantryPal, {{.Username}}!</h2>
<p>Your account is ready. Start tracking your pantry at <a href="{{.AppURL}}">{{.AppURL}}</a>.</p>
</body></html>`))

var passwordResetTmpl = template.Must(template.New("password-reset").Parse(`<html><body>
<h2>Reset your PantryPal password</h2>
<p>Click <a href="{{.ResetURL}}">here</a> to choose a new password. The link expires shortly.</p>
</body></html>`))

func (d *SMTPDispatcher) SendWelcome(to, username string) {
	go d.send(to, "Welcome to PantryPal!", welcomeTmpl, map[string]string{
		"Username": username,
		"AppURL":   d.cfg.FrontendURL,
	})
}

func (d *SMTPDispatcher) SendPasswordReset(to, resetToken string) {
	go d.send(to, "Reset Your PantryPal Password", passwordResetTmpl, map[string]string{
		"ResetURL": d.cfg.FrontendURL + "/reset-password?token=" + resetToken,
	})
}

func (d *SMTPDispatcher) send(to, subject string, tmpl *template.Template, vars map[string]string) {
	if d.cfg.Mock {
		d.log.Info("mock email sent",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Any("vars", vars))
		return
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, vars); err != nil {
		d.log.Error("failed to render email template", zap.String("to", to), zap.Error(err))
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := d.dialer.DialAndSend(m); err != nil {
		d.log.Error("failed to send email", zap.String("to", to), zap.Error(err))
		return
	}
	d.log.Info("email sent", zap.String("to", to), zap.String("subject", subject))
}
