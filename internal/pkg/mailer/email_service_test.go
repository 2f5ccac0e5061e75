package mailer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRenderReminderEscapesNames(t *testing.T) {
	body := renderReminder([]RenewalLine{{
		ProductName: "Tom & Jerry <Plus>",
		PlanName:    "Family",
		Amount:      decimal.RequireFromString("9.5"),
		Currency:    "EUR",
		Date:        time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
	}})

	assert.Contains(t, body, "Tom &amp; Jerry &lt;Plus&gt; &middot; Family")
	assert.Contains(t, body, "Mar 6, 2026")
	assert.Contains(t, body, "9.50 EUR")
	assert.NotContains(t, body, "<Plus>")
}

func TestSendRenewalReminderSkipsEmptyDigest(t *testing.T) {
	svc := NewEmailService("localhost", 1, "", "", "noreply@example.com", "SubTracker")
	assert.NoError(t, svc.SendRenewalReminder("user@example.com", nil))
}
