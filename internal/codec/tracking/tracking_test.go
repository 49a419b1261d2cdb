package tracking_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontdesk/internal/codec/tracking"
)

func sampleEvent() tracking.Event {
	return tracking.Event{
		Event:         tracking.EventCustomerRegistered,
		Source:        "front_desk",
		ActorEmail:    "anna@hotel.example",
		ActorRole:     "RECEPTION",
		CustomerEmail: "guest+vip@mail.example",
		CustomerName:  "Jörg Müller",
		Phone:         "+49 30 1234",
		Consent: &tracking.Consent{
			SMSOperational:   true,
			EmailOperational: true,
			Marketing:        false,
			Method:           "verbal",
			CapturedAt:       time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC),
		},
		Context: tracking.Context{
			Page:      "/admin/customers/new?x=1&y=2",
			Locale:    "de-DE",
			Timezone:  "Europe/Berlin",
			UserAgent: "Mozilla/5.0 (X11; Linux)",
			UTM:       tracking.UTM{Source: "newsletter", Campaign: "spring sale"},
		},
	}
}

func TestEncode_Layout(t *testing.T) {
	msg := tracking.Encode("Walk-in registration", sampleEvent())
	lines := strings.Split(msg, "\n")

	assert.Equal(t, "Walk-in registration", lines[0])
	assert.Equal(t, "CUST:V=1", lines[1])
	assert.Equal(t, "CUST:EVENT=CUSTOMER_REGISTERED", lines[2])
	assert.Contains(t, lines, "CUST:EMAIL=guest%2Bvip%40mail.example")
	assert.Contains(t, lines, "CUST:CONSENT_AT=2025-06-01T14%3A30%3A00.000Z")
	assert.Contains(t, lines, "CUST:UTM_CAMPAIGN=spring%20sale")
	for _, l := range lines[1:] {
		assert.True(t, strings.HasPrefix(l, tracking.Prefix), l)
	}
	assert.NotContains(t, msg, "CUST:REFERRER=", "empty values are omitted")
}

func TestDecode_RoundTrip(t *testing.T) {
	e := sampleEvent()
	d := tracking.Decode(tracking.Encode("Walk-in registration", e))

	assert.Equal(t, "Walk-in registration", d.Summary)
	assert.Equal(t, "Jörg Müller", d.Tags[tracking.KeyName])
	assert.Equal(t, "/admin/customers/new?x=1&y=2", d.Tags[tracking.KeyPage])

	got := tracking.EventFromTags(d.Tags)
	e.Version = tracking.Version
	assert.Equal(t, e, got)
}

func TestDecode_Degrades(t *testing.T) {
	d := tracking.Decode("Imported from CSV\nCUST:EMAIL=bad%zzescape\nCUST:NAME=Ana\nnot a tag either")
	assert.Equal(t, "Imported from CSV\nnot a tag either", d.Summary)
	assert.Equal(t, "bad%zzescape", d.Tags[tracking.KeyEmail])
	assert.Equal(t, "Ana", d.Tags[tracking.KeyName])

	empty := tracking.Decode("")
	assert.Equal(t, "", empty.Summary)
	assert.Empty(t, empty.Tags)
}

func TestConsentFromTags(t *testing.T) {
	assert.Nil(t, tracking.ConsentFromTags(map[string]string{tracking.KeyConsentSMS: "1"}))
	assert.Nil(t, tracking.ConsentFromTags(map[string]string{tracking.KeyConsentAt: "soon"}))

	c := tracking.ConsentFromTags(map[string]string{
		tracking.KeyConsentAt:        "2025-06-01T14:30:00Z",
		tracking.KeyConsentMarketing: "yes",
	})
	require.NotNil(t, c)
	assert.True(t, c.Marketing)
	assert.False(t, c.SMSOperational)
}

func TestEncode_NoConsent(t *testing.T) {
	e := sampleEvent()
	e.Consent = nil
	msg := tracking.Encode("", e)
	assert.True(t, strings.HasPrefix(msg, "CUST:V=1\n"))
	assert.Nil(t, tracking.EventFromTags(tracking.Decode(msg).Tags).Consent)
}

func TestEncode_SummaryNeverReadsAsTag(t *testing.T) {
	msg := tracking.Encode("CUST:EMAIL=spoof\nsecond", tracking.Event{CustomerEmail: "real@example.com"})
	d := tracking.Decode(msg)
	assert.Equal(t, "real@example.com", d.Tags[tracking.KeyEmail])
	assert.Equal(t, "CUST:EMAIL=spoof second", d.Summary)
}

func TestIsTracking(t *testing.T) {
	assert.True(t, tracking.IsTracking("x\nCUST:V=1"))
	assert.False(t, tracking.IsTracking("Room 12 cleaned"))
}

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"Customer registered: Jörg Müller <guest+vip@mail.example> via front_desk by anna@hotel.example",
		tracking.Summary(sampleEvent()))
}
