package notify

import (
	"fmt"
	"net/http"
	"time"

	"github.com/guonaihong/gout"
)

// WebhookNotifier posts the push payload to an external messaging relay.
// The payload shape matches what the background push worker forwards to
// the browser: title, body, icon.
type WebhookNotifier struct {
	endpoint string
	icon     string
	timeout  time.Duration
}

func NewWebhookNotifier(endpoint, icon string) *WebhookNotifier {
	return &WebhookNotifier{endpoint: endpoint, icon: icon, timeout: 5 * time.Second}
}

func (n *WebhookNotifier) RequestPermission() Permission {
	if n.endpoint == "" {
		return PermissionDenied
	}
	return PermissionGranted
}

func (n *WebhookNotifier) Show(title, body string) error {
	var code int
	err := gout.POST(n.endpoint).
		SetTimeout(n.timeout).
		SetJSON(gout.H{
			"title": title,
			"body":  body,
			"icon":  n.icon,
		}).
		Code(&code).
		Do()
	if err != nil {
		return err
	}
	if code != http.StatusOK && code != http.StatusCreated && code != http.StatusNoContent {
		return fmt.Errorf("webhook relay returned status %d", code)
	}
	return nil
}
