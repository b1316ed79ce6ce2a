package config

// Config is the client configuration for the command-line tool.
type Config struct {
	// APIKey is the Bus Tracker developer key. Required.
	APIKey string `yaml:"apiKey" validate:"required"`
	// BaseURL overrides the production API endpoint, mainly for
	// pointing the tool at a recorded or staged server.
	BaseURL string `yaml:"baseURL" validate:"omitempty,url"`
	// TimeoutMS bounds each HTTP request. Zero keeps the default.
	TimeoutMS int `yaml:"timeoutMS" validate:"gte=0"`
}
