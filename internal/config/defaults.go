package config

import "promptalbum/internal/prompt"

const (
	ModeCopy = "copy"
	ModeMove = "move"
)

const (
	defaultSourceDir        = "~/Pictures"
	defaultTargetDir        = "~/Pictures/Albums"
	defaultLogDir           = "~/.local/share/promptalbum/logs"
	defaultStateDir         = "~/.local/share/promptalbum"
	defaultScanWorkers      = 4
	defaultThumbnailSize    = 200
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

var defaultExtensions = []string{".jpg", ".jpeg", ".png", ".heic", ".raw", ".cr2", ".nef"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	vocab := prompt.DefaultVocabulary()
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			TargetDir: defaultTargetDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir,
		},
		Scan: Scan{
			Extensions: append([]string(nil), defaultExtensions...),
			Workers:    defaultScanWorkers,
			ReadEXIF:   true,
		},
		Organize: Organize{
			Mode:               ModeCopy,
			PreserveTimestamps: true,
			WriteDocs:          true,
			Gallery:            true,
			ThumbnailSize:      defaultThumbnailSize,
		},
		Parser: Parser{
			StopPhrases:    vocab.StopPhrases,
			StopWords:      vocab.StopWords,
			DateConnectors: vocab.DateConnectors,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
