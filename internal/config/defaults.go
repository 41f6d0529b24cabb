package config

const (
	defaultDataDir               = "~/.local/share/reprise"
	defaultLogDir                = "~/.local/share/reprise/logs"
	defaultBaseURL               = "https://ws.audioscrobbler.com/2.0/"
	defaultCallAttempts          = 3
	defaultRetryDelaySeconds     = 300
	defaultRequestTimeoutSeconds = 60
	defaultThrottleMaxCalls      = 1500
	defaultThrottleWindowSeconds = 300
	defaultRefreshInterval       = 3600
	defaultRefreshWorkers        = 3
	defaultChartPages            = 1
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

func defaultJobs() []string {
	return []string{
		"artist.getInfo",
		"artist.getSimilar",
		"artist.getTopTracks",
		"chart.getTopArtists",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Lastfm: Lastfm{
			BaseURL:               defaultBaseURL,
			CallAttempts:          defaultCallAttempts,
			RetryDelaySeconds:     defaultRetryDelaySeconds,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		},
		Throttle: Throttle{
			MaxCalls:      defaultThrottleMaxCalls,
			WindowSeconds: defaultThrottleWindowSeconds,
		},
		Refresh: Refresh{
			IntervalSeconds: defaultRefreshInterval,
			Workers:         defaultRefreshWorkers,
			ChartPages:      defaultChartPages,
			Jobs:            defaultJobs(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
