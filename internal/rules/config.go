package rules

// Config holds the tunable rule constants. Defaults match production; tests
// and deployments may override individual values.
type Config struct {
	MaxTagsPerListing          int
	TagMinLen                  int
	TagMaxLen                  int
	ReviewWindowDays           int
	DeliveredFallbackGraceDays int
	DownloadExpiryDays         int
}

func DefaultConfig() Config {
	return Config{
		MaxTagsPerListing:          13,
		TagMinLen:                  2,
		TagMaxLen:                  50,
		ReviewWindowDays:           60,
		DeliveredFallbackGraceDays: 7,
		DownloadExpiryDays:         30,
	}
}
