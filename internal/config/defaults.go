package config

const (
	defaultDataDir             = "~/.local/share/stride"
	defaultScratchDir          = "~/.local/share/stride/scratch"
	defaultLogDir              = "~/.local/share/stride/logs"
	defaultInputPrefix         = "uploads"
	defaultOutputPrefix        = "outputs"
	defaultStorageTimeout      = 120
	defaultAnalyzerBinary      = "stride-analyze"
	defaultAnalyzerTimeout     = 1800
	defaultEmailBaseURL        = "https://api.brevo.com"
	defaultEmailSenderName     = "Running Form Analysis"
	defaultEmailRequestTimeout = 15
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			ScratchDir: defaultScratchDir,
			LogDir:     defaultLogDir,
		},
		Storage: Storage{
			InputPrefix:    defaultInputPrefix,
			OutputPrefix:   defaultOutputPrefix,
			RequestTimeout: defaultStorageTimeout,
		},
		Analyzer: Analyzer{
			Binary:         defaultAnalyzerBinary,
			TimeoutSeconds: defaultAnalyzerTimeout,
		},
		Email: Email{
			Enabled:        true,
			BaseURL:        defaultEmailBaseURL,
			SenderName:     defaultEmailSenderName,
			RequestTimeout: defaultEmailRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
