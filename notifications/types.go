// SPDX-License-Identifier: GPL-3.0-only

package notifications

type NotificationData struct {
	To        string         `json:"to"`
	ToName    *string        `json:"to_name,omitempty"`
	Subject   string         `json:"subject"`
	Template  string         `json:"template"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Templates understood by the delivery channels. The managed-function
// endpoint exposes one function per template.
const (
	VerificationTemplate = "verification"
	WelcomeTemplate      = "welcome"
)

// Channel is one delivery strategy in the dispatch cascade.
type Channel interface {
	Name() string
	Send(data NotificationData) error
}

type functionsRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token,omitempty"`
	UserName string `json:"userName"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Content          []sendGridContent         `json:"content"`
}

type sendGridPersonalization struct {
	To      []sendGridAddress `json:"to"`
	Subject string            `json:"subject"`
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}
