package config

const (
	defaultFilesDir     = "~/.local/share/callwatch/files"
	defaultDatabasePath = "~/.local/share/callwatch/database.json"
	defaultLogDir       = "~/.local/share/callwatch/logs"
	defaultAPIBind      = "127.0.0.1:7319"
	defaultWorkers      = 4
	defaultQueueSize    = 64
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			FilesDir:     defaultFilesDir,
			DatabasePath: defaultDatabasePath,
			LogDir:       defaultLogDir,
			APIBind:      defaultAPIBind,
		},
		Ingest: Ingest{
			Extensions: []string{".mp3", ".wav"},
			Workers:    defaultWorkers,
			QueueSize:  defaultQueueSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
