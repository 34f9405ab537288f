// Package model defines shared data structures.
package model

// BackgroundType selects how BackgroundValue is interpreted.
type BackgroundType string

const (
	BackgroundColor    BackgroundType = "color"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundImage    BackgroundType = "image"
)

// Valid reports whether t is one of the known background types.
func (t BackgroundType) Valid() bool {
	switch t {
	case BackgroundColor, BackgroundGradient, BackgroundImage:
		return true
	}
	return false
}

// Config is the single user configuration record.
type Config struct {
	BackgroundType       BackgroundType `json:"backgroundType"`
	BackgroundValue      string         `json:"backgroundValue"` // CSS color/gradient or image data URI
	AnniversaryDay       int            `json:"anniversaryDay"`
	NotificationsEnabled bool           `json:"notificationsEnabled"`
}

// Memory is a saved photo shown in the gallery.
type Memory struct {
	ID   string `json:"id"`
	URL  string `json:"url"`  // data URI
	Date int64  `json:"date"` // epoch milliseconds
}

// CountdownTime is the time left until the next anniversary.
type CountdownTime struct {
	Days    int64 `json:"days"`
	Hours   int64 `json:"hours"`
	Minutes int64 `json:"minutes"`
	Seconds int64 `json:"seconds"`
}

// IsZero reports whether every component is zero.
func (c CountdownTime) IsZero() bool {
	return c == CountdownTime{}
}

// Override is a fixed message shown instead of a generated one on a given date.
type Override struct {
	Month int    `json:"month"` // 1-12
	Day   int    `json:"day"`
	Text  string `json:"text"`
}

// Notification is what a notification platform displays.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Badge string `json:"badge,omitempty"`
}

// Record keys used by the persistence store.
const (
	RecordConfig    = "config"
	RecordMemories  = "memories"
	RecordOverrides = "overrides"
)

// Anniversary day bounds and default.
const (
	MinAnniversaryDay     = 1
	MaxAnniversaryDay     = 31
	DefaultAnniversaryDay = 27
)

// BackgroundPresets are the gradients offered in the settings view.
var BackgroundPresets = []string{
	"linear-gradient(135deg, #f093fb 0%, #f5576c 100%)",
	"linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	"linear-gradient(135deg, #22c1c3 0%, #fdbb2d 100%)",
}

// DefaultConfig returns the configuration used when none is stored.
func DefaultConfig() Config {
	return Config{
		BackgroundType:       BackgroundGradient,
		BackgroundValue:      BackgroundPresets[1],
		AnniversaryDay:       DefaultAnniversaryDay,
		NotificationsEnabled: false,
	}
}

// Normalize replaces invalid fields with their defaults.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if !c.BackgroundType.Valid() || c.BackgroundValue == "" {
		c.BackgroundType = def.BackgroundType
		c.BackgroundValue = def.BackgroundValue
	}
	if c.AnniversaryDay < MinAnniversaryDay || c.AnniversaryDay > MaxAnniversaryDay {
		c.AnniversaryDay = def.AnniversaryDay
	}
	return c
}

// FirstAnniversaryMessage is shown on the first anniversary instead of a generated message.
const FirstAnniversaryMessage = "¡Feliz primer año juntos, mi amor! ❤️ Un año de risas, de apoyo y de un amor inmenso. Eres lo mejor de mi vida. Por muchísimos años más."

// DefaultOverrides returns the override list used when none is stored.
func DefaultOverrides() []Override {
	return []Override{
		{Month: 2, Day: 27, Text: FirstAnniversaryMessage},
	}
}
