package notify

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"wagondepot/common"

	"github.com/slack-go/slack"
)

// Notifier pushes one human-readable message to an external messaging
// channel. Delivery is best effort: the caller never retries.
type Notifier interface {
	Publish(message string) error
}

// WebhookNotifier posts {"message": ...} to a plain JSON webhook, the shape
// the Telegram bridge of the original deployment expects.
type WebhookNotifier struct {
	Url string
}

func (n *WebhookNotifier) Publish(message string) error {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return err
	}
	_, err = common.HttpInvokeJson(http.MethodPost, n.Url, nil, string(body))
	return err
}

// SlackNotifier posts to a Slack incoming webhook.
type SlackNotifier struct {
	WebhookUrl string
}

func (n *SlackNotifier) Publish(message string) error {
	return slack.PostWebhook(n.WebhookUrl, &slack.WebhookMessage{Text: message})
}

// BuildNotifierFromEnv picks the channel: SLACK_WEBHOOK wins over
// NOTIFY_WEBHOOK; with neither set the service runs without notifications.
func BuildNotifierFromEnv() (Notifier, error) {
	if url := os.ExpandEnv(os.Getenv("SLACK_WEBHOOK")); url != "" {
		return &SlackNotifier{WebhookUrl: url}, nil
	}
	if url := os.ExpandEnv(os.Getenv("NOTIFY_WEBHOOK")); url != "" {
		return &WebhookNotifier{Url: url}, nil
	}
	return nil, errors.New("neither SLACK_WEBHOOK nor NOTIFY_WEBHOOK is set")
}
