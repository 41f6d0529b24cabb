package config

// sampleConfig is written by `reprise config init`. Values shown are the
// repository defaults.
const sampleConfig = `# reprise configuration

[paths]
# Directory holding the reprise SQLite database.
data_dir = "~/.local/share/reprise"
# Directory for daemon log files.
log_dir = "~/.local/share/reprise/logs"

[lastfm]
# API key for the audioscrobbler web service. Falls back to the
# LASTFM_API_KEY environment variable when empty.
api_key = ""
base_url = "https://ws.audioscrobbler.com/2.0/"
# Attempts per call before giving up on recoverable failures.
call_attempts = 3
# Delay between recoverable attempts, in seconds.
retry_delay_seconds = 300
request_timeout_seconds = 60

[throttle]
# At most max_calls requests in any rolling window_seconds window.
max_calls = 1500
window_seconds = 300

[refresh]
# Seconds between background refresh passes.
interval_seconds = 3600
# Concurrent refresh workers per job.
workers = 3
# Pages of the top-artists chart to keep fresh (0 disables the chart job).
chart_pages = 1
# Call types refreshed by the daemon.
jobs = [
    "artist.getInfo",
    "artist.getSimilar",
    "artist.getTopTracks",
    "chart.getTopArtists",
]

[logging]
# console or json
format = "console"
level = "info"
`
