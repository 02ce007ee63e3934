package payload

// Config names the application-specific keys that carry a message's text and
// title. Empty values disable the corresponding mapping.
type Config struct {
	MessageKey string `env:"MESSAGE_KEY" envDefault:"message"`
	TitleKey   string `env:"TITLE_KEY" envDefault:"title"`
}
