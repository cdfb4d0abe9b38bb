package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// CorsOrigins is the comma separated list of allowed origins.
	CorsOrigins string `mapstructure:"cors_origins" default:"*"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
