package notification

import (
	"strings"

	"github.com/watchnotify/notifier-api/internal/model"
)

// emailSubject builds the subject line for release announcement emails.
func emailSubject(release *model.Release) string {
	return "New Watch Release: " + release.WatchName
}

// emailBody renders the plain-text email for one user. Optional release
// attributes are listed only when present.
func emailBody(user *model.User, release *model.Release, customMessage string) string {
	var b strings.Builder
	b.WriteString("Dear ")
	b.WriteString(user.FirstName)
	b.WriteString(",\n\n")

	if msg := strings.TrimSpace(customMessage); msg != "" {
		b.WriteString(msg)
		b.WriteString("\n\n")
	}

	b.WriteString("We're excited to announce a new watch release!\n\n")
	b.WriteString("Watch: ")
	b.WriteString(release.WatchName)
	b.WriteString("\n")
	b.WriteString("Brand: ")
	b.WriteString(release.Brand)
	b.WriteString("\n")

	if release.ModelNumber != nil {
		b.WriteString("Model: ")
		b.WriteString(*release.ModelNumber)
		b.WriteString("\n")
	}

	if release.Price.Valid {
		b.WriteString("Price: ")
		b.WriteString(release.Currency)
		b.WriteString(" ")
		b.WriteString(release.Price.Decimal.String())
		b.WriteString("\n")
	}

	if release.Description != nil {
		b.WriteString("Description: ")
		b.WriteString(*release.Description)
		b.WriteString("\n")
	}

	if release.ProductURL != nil {
		b.WriteString("Learn more: ")
		b.WriteString(*release.ProductURL)
		b.WriteString("\n")
	}

	b.WriteString("\nBest regards,\nWatch Notification Service")

	return b.String()
}

// smsBody renders the single-line SMS text. Line breaks in the custom
// message are flattened so the result stays one compact line.
func smsBody(release *model.Release, customMessage string) string {
	var b strings.Builder
	b.WriteString("New watch release: ")
	b.WriteString(release.WatchName)
	b.WriteString(" by ")
	b.WriteString(release.Brand)

	if release.Price.Valid {
		b.WriteString(" - ")
		b.WriteString(release.Currency)
		b.WriteString(" ")
		b.WriteString(release.Price.Decimal.String())
	}

	if msg := strings.TrimSpace(customMessage); msg != "" {
		b.WriteString(" - ")
		b.WriteString(strings.Join(strings.Fields(msg), " "))
	}

	return b.String()
}

// pushBody renders the push notification line. The custom message is not
// used for push.
func pushBody(release *model.Release) string {
	return "New " + release.Brand + " watch: " + release.WatchName + " is now available!"
}
