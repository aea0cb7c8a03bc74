package notify

// Config holds the module's authentication settings. The service token
// guards the ingest endpoint and is distinct from end-user authentication;
// the user header carries the identity the platform gateway resolved.
type Config struct {
	ServiceToken string `env:"NOTIFY_SERVICE_TOKEN,required"`
	UserHeader   string `env:"NOTIFY_USER_HEADER" envDefault:"X-User-ID"`
}
