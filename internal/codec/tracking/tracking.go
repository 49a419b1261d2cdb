// Package tracking encodes customer-registration audit events as audit-log
// messages: an optional human summary line followed by one CUST:KEY=VALUE
// line per field. Events are append-only; there is no update path.
package tracking

import (
	"strconv"
	"strings"
	"time"

	"frontdesk/internal/codec/tags"
)

const (
	Prefix  = "CUST:"
	Version = 1
)

// Tag keys in emission order.
const (
	KeyVersion          = "V"
	KeyEvent            = "EVENT"
	KeySource           = "SOURCE"
	KeyActorEmail       = "ACTOR_EMAIL"
	KeyActorRole        = "ACTOR_ROLE"
	KeyEmail            = "EMAIL"
	KeyName             = "NAME"
	KeyPhone            = "PHONE"
	KeyConsentSMS       = "CONSENT_SMS"
	KeyConsentEmail     = "CONSENT_EMAIL"
	KeyConsentMarketing = "CONSENT_MARKETING"
	KeyConsentMethod    = "CONSENT_METHOD"
	KeyConsentAt        = "CONSENT_AT"
	KeyPage             = "PAGE"
	KeyReferrer         = "REFERRER"
	KeyLocale           = "LOCALE"
	KeyTimezone         = "TZ"
	KeyUserAgent        = "UA"
	KeyUTMSource        = "UTM_SOURCE"
	KeyUTMMedium        = "UTM_MEDIUM"
	KeyUTMCampaign      = "UTM_CAMPAIGN"
	KeyUTMTerm          = "UTM_TERM"
	KeyUTMContent       = "UTM_CONTENT"
)

const EventCustomerRegistered = "CUSTOMER_REGISTERED"

type Consent struct {
	SMSOperational   bool      `json:"smsOperational"`
	EmailOperational bool      `json:"emailOperational"`
	Marketing        bool      `json:"marketing"`
	Method           string    `json:"method"`
	CapturedAt       time.Time `json:"capturedAt"`
}

type UTM struct {
	Source   string `json:"source,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

type Context struct {
	Page      string `json:"page,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	Locale    string `json:"locale,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	UTM       UTM    `json:"utm"`
}

type Event struct {
	Version       int      `json:"version"`
	Event         string   `json:"event"`
	Source        string   `json:"source"`
	ActorEmail    string   `json:"actorEmail,omitempty"`
	ActorRole     string   `json:"actorRole,omitempty"`
	CustomerEmail string   `json:"customerEmail"`
	CustomerName  string   `json:"customerName,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Consent       *Consent `json:"consent,omitempty"`
	Context       Context  `json:"context"`
}

// Decoded is the flat view of a message.
type Decoded struct {
	Summary string            `json:"summary"`
	Tags    map[string]string `json:"tags"`
}

type field struct {
	key   string
	value string
}

// Encode renders the event. Empty optional values are left out; the version
// line is always first.
func Encode(summary string, e Event) string {
	v := e.Version
	if v <= 0 {
		v = Version
	}
	fields := []field{
		{KeyVersion, strconv.Itoa(v)},
		{KeyEvent, e.Event},
		{KeySource, e.Source},
		{KeyActorEmail, e.ActorEmail},
		{KeyActorRole, e.ActorRole},
		{KeyEmail, e.CustomerEmail},
		{KeyName, e.CustomerName},
		{KeyPhone, e.Phone},
	}
	if c := e.Consent; c != nil {
		fields = append(fields,
			field{KeyConsentSMS, flag(c.SMSOperational)},
			field{KeyConsentEmail, flag(c.EmailOperational)},
			field{KeyConsentMarketing, flag(c.Marketing)},
			field{KeyConsentMethod, c.Method},
			field{KeyConsentAt, tags.FormatTime(c.CapturedAt)},
		)
	}
	ctx := e.Context
	fields = append(fields,
		field{KeyPage, ctx.Page},
		field{KeyReferrer, ctx.Referrer},
		field{KeyLocale, ctx.Locale},
		field{KeyTimezone, ctx.Timezone},
		field{KeyUserAgent, ctx.UserAgent},
		field{KeyUTMSource, ctx.UTM.Source},
		field{KeyUTMMedium, ctx.UTM.Medium},
		field{KeyUTMCampaign, ctx.UTM.Campaign},
		field{KeyUTMTerm, ctx.UTM.Term},
		field{KeyUTMContent, ctx.UTM.Content},
	)

	lines := make([]string, 0, len(fields)+1)
	if s := oneLine(summary); strings.TrimSpace(s) != "" {
		lines = append(lines, s)
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		lines = append(lines, tags.Format(Prefix, f.key, tags.EncodeText(f.value)))
	}
	return tags.Join(lines)
}

// Decode never fails. Lines without the prefix form the summary; each value
// is percent-decoded on its own.
func Decode(msg string) Decoded {
	owned, rest := tags.Partition(tags.Split(msg), Prefix)
	d := Decoded{Tags: make(map[string]string, len(owned))}
	var summary []string
	for _, l := range rest {
		if t := strings.TrimSpace(l); t != "" {
			summary = append(summary, t)
		}
	}
	d.Summary = strings.Join(summary, "\n")
	for _, tok := range owned {
		d.Tags[tok.Key] = tags.DecodeText(tok.Value)
	}
	return d
}

// IsTracking reports whether msg carries at least one CUST: line.
func IsTracking(msg string) bool {
	owned, _ := tags.Partition(tags.Split(msg), Prefix)
	return len(owned) > 0
}

// ConsentFromTags is nil unless CONSENT_AT is present and parseable.
func ConsentFromTags(t map[string]string) *Consent {
	at := tags.ParseTime(t[KeyConsentAt])
	if at == nil {
		return nil
	}
	return &Consent{
		SMSOperational:   tags.BoolOr(t[KeyConsentSMS], false),
		EmailOperational: tags.BoolOr(t[KeyConsentEmail], false),
		Marketing:        tags.BoolOr(t[KeyConsentMarketing], false),
		Method:           t[KeyConsentMethod],
		CapturedAt:       *at,
	}
}

// EventFromTags rebuilds the typed event from a decoded tag map.
func EventFromTags(t map[string]string) Event {
	v := int(tags.NumberOr(t[KeyVersion], Version))
	return Event{
		Version:       v,
		Event:         t[KeyEvent],
		Source:        t[KeySource],
		ActorEmail:    t[KeyActorEmail],
		ActorRole:     t[KeyActorRole],
		CustomerEmail: t[KeyEmail],
		CustomerName:  t[KeyName],
		Phone:         t[KeyPhone],
		Consent:       ConsentFromTags(t),
		Context: Context{
			Page:      t[KeyPage],
			Referrer:  t[KeyReferrer],
			Locale:    t[KeyLocale],
			Timezone:  t[KeyTimezone],
			UserAgent: t[KeyUserAgent],
			UTM: UTM{
				Source:   t[KeyUTMSource],
				Medium:   t[KeyUTMMedium],
				Campaign: t[KeyUTMCampaign],
				Term:     t[KeyUTMTerm],
				Content:  t[KeyUTMContent],
			},
		},
	}
}

// Summary is the default human line for an event.
func Summary(e Event) string {
	who := e.CustomerEmail
	if e.CustomerName != "" {
		who = e.CustomerName + " <" + e.CustomerEmail + ">"
	}
	s := "Customer registered: " + who
	if e.Source != "" {
		s += " via " + e.Source
	}
	if e.ActorEmail != "" {
		s += " by " + e.ActorEmail
	}
	return s
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// oneLine collapses whitespace. A summary that would read as a tag line is
// indented so Decode keeps it as summary.
func oneLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if strings.HasPrefix(s, Prefix) {
		s = " " + s
	}
	return s
}
