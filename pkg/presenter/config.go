package presenter

// DefaultGroupSummaryID is the reserved tray id of the group summary.
const DefaultGroupSummaryID = 999999

// Config controls presentation defaults.
type Config struct {
	// AppName is used as title when a message arrives without one.
	AppName        string `env:"APP_NAME" envDefault:"App"`
	DefaultIcon    string `env:"ICON" envDefault:"ic_notification"`
	IconColor      string `env:"ICON_COLOR"`
	ChannelID      string `env:"CHANNEL_ID" envDefault:"PushPluginChannel"`
	GroupSummaryID int    `env:"GROUP_SUMMARY_ID" envDefault:"999999"`
	GroupKey       string `env:"GROUP_KEY" envDefault:"pushkit.group"`
	// SummaryTemplate is used when the payload has no summaryText.
	SummaryTemplate string `env:"SUMMARY_TEMPLATE" envDefault:"%n% more"`
	// SingularSummaryTemplate replaces a custom summaryText when exactly one
	// entry is aggregated.
	SingularSummaryTemplate string `env:"SINGULAR_SUMMARY_TEMPLATE" envDefault:"There is %n% notification"`
	InlineReplyLabel        string `env:"INLINE_REPLY_LABEL" envDefault:"Enter your reply here"`
}

func (c Config) withDefaults() Config {
	if c.AppName == "" {
		c.AppName = "App"
	}
	if c.GroupSummaryID == 0 {
		c.GroupSummaryID = DefaultGroupSummaryID
	}
	if c.GroupKey == "" {
		c.GroupKey = "pushkit.group"
	}
	if c.SummaryTemplate == "" {
		c.SummaryTemplate = "%n% more"
	}
	if c.SingularSummaryTemplate == "" {
		c.SingularSummaryTemplate = "There is %n% notification"
	}
	if c.InlineReplyLabel == "" {
		c.InlineReplyLabel = DefaultInlineReplyLabel
	}
	return c
}
