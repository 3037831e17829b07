package services

import (
	"fmt"
	"net/url"
	"strings"

	"travel-agency/models"
)

// FollowUp formats the links shown after a submission so the visitor can
// reach the agency directly. It never touches the store.
type FollowUp struct {
	AgencyName string
	Email      string
	WhatsApp   string
}

type FollowUpLinks struct {
	Mailto   string `json:"mailto"`
	WhatsApp string `json:"whatsapp"`
}

func (f FollowUp) ForBooking(b models.Booking, packageTitle string) FollowUpLinks {
	var details strings.Builder
	fmt.Fprintf(&details, "Name: %s\nEmail: %s\nPhone: %s\nTravel Date: %s\n", b.Name, b.Email, b.Phone, b.Date)

	chat := "Hello! I just submitted a booking request:\n\n" + details.String() +
		fmt.Sprintf("Persons: %d\n", b.Persons)
	mail := fmt.Sprintf("Hello %s,\n\nI just submitted a booking request through your website:\n\n", f.AgencyName) +
		details.String() + fmt.Sprintf("Number of Persons: %d\n", b.Persons)

	if packageTitle != "" {
		chat += "Package: " + packageTitle + "\n"
		mail += "Preferred Package: " + packageTitle + "\n"
	}
	if b.Message != "" {
		chat += "\nMessage: " + b.Message + "\n"
		mail += "\nAdditional Details:\n" + b.Message + "\n"
	}
	chat += "\nPlease confirm my booking. Thank you!"
	mail += "\nPlease confirm my booking at your earliest convenience.\n\nThank you!"

	return FollowUpLinks{
		Mailto:   f.mailto("Booking Request - "+b.Name, mail),
		WhatsApp: f.whatsapp(chat),
	}
}

func (f FollowUp) ForContact(c models.Contact) FollowUpLinks {
	body := fmt.Sprintf("Name: %s\nEmail: %s\nPhone: %s\n\nMessage:\n%s", c.Name, c.Email, c.Phone, c.Message)
	return FollowUpLinks{
		Mailto:   f.mailto(c.Subject, body),
		WhatsApp: f.whatsapp(body),
	}
}

func (f FollowUp) mailto(subject, body string) string {
	return "mailto:" + f.Email + "?subject=" + escape(subject) + "&body=" + escape(body)
}

func (f FollowUp) whatsapp(text string) string {
	return "https://wa.me/" + digits(f.WhatsApp) + "?" + url.Values{"text": {text}}.Encode()
}

// escape percent-encodes like encodeURIComponent; mail clients do not
// decode "+" as a space.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// packageTitleFromMessage recovers the label of custom bookings whose
// message carries a "Preferred package:" line.
func packageTitleFromMessage(message string) string {
	if m := preferredPackage.FindStringSubmatch(message); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}
