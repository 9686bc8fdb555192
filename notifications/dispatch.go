// SPDX-License-Identifier: GPL-3.0-only

package notifications

import (
	"fmt"

	"alimenta-server/commons"
)

// Dispatcher tries each configured channel in rank order and stops at the
// first one that accepts the message. Channel failures are logged and fall
// through; the final mock channel always accepts, so a dispatch never
// surfaces a delivery failure to its caller.
type Dispatcher struct {
	Channels []Channel
}

// NewDispatcher builds the cascade from the environment. Unconfigured
// channels are simply absent from the chain.
func NewDispatcher() *Dispatcher {
	channels := []Channel{}

	if commons.GetEnv("MOCK_EMAIL_NOTIFICATIONS") != "true" {
		if amqpURL := commons.GetEnv("AMQP_URL"); amqpURL != "" {
			channels = append(channels, &QueueChannel{
				URL:   amqpURL,
				Queue: commons.GetEnv("EMAIL_QUEUE", "emails"),
			})
		}
		if endpoint := commons.GetEnv("FUNCTIONS_ENDPOINT"); endpoint != "" {
			channels = append(channels, NewFunctionsChannel(endpoint))
		}
		if apiKey := commons.GetEnv("SENDGRID_API_KEY"); apiKey != "" {
			channels = append(channels, NewSendGridChannel(apiKey))
		}
		if smtpHost := commons.GetEnv("SMTP_HOST"); smtpHost != "" {
			channels = append(channels, &SMTPChannel{})
		}
	}

	channels = append(channels, &MockChannel{})
	return &Dispatcher{Channels: channels}
}

func (d *Dispatcher) Dispatch(data NotificationData) error {
	commons.Logger.Debugf("Dispatching notification:\n- template=%s\n- to=%s", data.Template, data.To)

	for _, channel := range d.Channels {
		if err := channel.Send(data); err != nil {
			commons.Logger.Warnf("Notification channel %s failed, falling through: %v", channel.Name(), err)
			continue
		}
		commons.Logger.Infof("Notification dispatched successfully:\n- template=%s\n- channel=%s", data.Template, channel.Name())
		return nil
	}

	// Unreachable while the mock channel terminates the chain.
	err := fmt.Errorf("all notification channels failed")
	commons.Logger.Errorf("Failed to dispatch notification:\n%v", err)
	return err
}
