package notify

import (
	"gopkg.in/gomail.v2"
)

// MailNotifier delivers reminders over SMTP for users who want a copy in
// their inbox in addition to the push channel.
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewMailNotifier(host string, port int, user, passwd, from, to string) *MailNotifier {
	if from == "" {
		from = user
	}
	return &MailNotifier{
		dialer: gomail.NewDialer(host, port, user, passwd),
		from:   from,
		to:     to,
	}
}

func (n *MailNotifier) RequestPermission() Permission {
	if n.dialer.Host == "" || n.to == "" {
		return PermissionDenied
	}
	return PermissionGranted
}

func (n *MailNotifier) Show(title, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to)
	m.SetHeader("Subject", title)
	m.SetBody("text/plain", body)
	return n.dialer.DialAndSend(m)
}
