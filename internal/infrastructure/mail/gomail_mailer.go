// Package mail implementa el puerto de correo saliente con gomail sobre SMTP.
// Sin SMTP_HOST configurado el mailer entra en modo log: registra cada envío
// en lugar de despacharlo (útil en desarrollo y en tests de integración).
package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/pkg/config"
	"github.com/tu-usuario/procura-pro/pkg/logger"
)

var _ ncr.Mailer = (*GomailMailer)(nil)

// GomailMailer implementa ncr.Mailer vía SMTP.
type GomailMailer struct {
	cfg config.SMTPConfig
	log *logger.Logger
}

// NewGomailMailer construye el mailer con la configuración SMTP.
func NewGomailMailer(cfg config.SMTPConfig, log *logger.Logger) *GomailMailer {
	return &GomailMailer{cfg: cfg, log: log}
}

// SendSupplierResponded notifica al PM reportante que el proveedor respondió su NCR.
func (m *GomailMailer) SendSupplierResponded(_ context.Context, to string, data ncr.SupplierRespondedMail) error {
	subject := fmt.Sprintf("[%s] El proveedor %s respondió", data.NCRNumber, data.SupplierName)
	body := fmt.Sprintf(`
		<h2>%s — %s</h2>
		<p><strong>%s</strong> respondió la no conformidad:</p>
		<blockquote>%s</blockquote>
		%s
		<p><a href="%s">Ver el NCR en el dashboard</a></p>`,
		data.NCRNumber, data.NCRTitle,
		data.SupplierName,
		data.CommentPreview,
		attachmentsNote(data.HasAttachments, data.HasVoiceNote),
		data.DashboardURL,
	)
	return m.send(to, subject, body)
}

// SendCommentToSupplier notifica al contacto del proveedor un comentario nuevo,
// con un magic link fresco para responder sin cuenta.
func (m *GomailMailer) SendCommentToSupplier(_ context.Context, to string, data ncr.CommentToSupplierMail) error {
	subject := fmt.Sprintf("[%s] Nuevo comentario en su no conformidad", data.NCRNumber)
	body := fmt.Sprintf(`
		<h2>%s — %s</h2>
		<p>El equipo (%s) dejó un comentario:</p>
		<blockquote>%s</blockquote>
		%s
		<p><a href="%s">Ver y responder</a> (el enlace expira en 72 horas)</p>`,
		data.NCRNumber, data.NCRTitle,
		data.AuthorRole,
		data.CommentPreview,
		attachmentsNote(data.HasAttachments, data.HasVoiceNote),
		data.RespondURL,
	)
	return m.send(to, subject, body)
}

func (m *GomailMailer) send(to, subject, htmlBody string) error {
	if m.cfg.Host == "" {
		m.log.Info().Str("to", to).Str("subject", subject).Msg("SMTP no configurado: correo solo registrado")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}

func attachmentsNote(hasAttachments, hasVoiceNote bool) string {
	switch {
	case hasAttachments && hasVoiceNote:
		return "<p><em>Incluye adjuntos y una nota de voz.</em></p>"
	case hasAttachments:
		return "<p><em>Incluye adjuntos.</em></p>"
	case hasVoiceNote:
		return "<p><em>Incluye una nota de voz.</em></p>"
	}
	return ""
}
