package config

const (
	defaultConfigPath       = "~/.config/binmerge/config.toml"
	projectConfigFile       = "binmerge.toml"
	dotEnvFile              = ".env"
	historyFile             = "history.db"
	defaultStateDir         = "~/.local/share/binmerge"
	defaultLogDir           = "~/.local/share/binmerge/logs"
	defaultOutputDirName    = "combined"
	defaultOutputFileType   = "BINARY"
	defaultCueEncoding      = EncodingAuto
	defaultCopyBufferKiB    = 4
	defaultSettleSeconds    = 3
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30

	maxCopyBufferKiB = 64 * 1024
)

// LogFilePattern matches the files written by LogPath.
const LogFilePattern = "binmerge-*.log"

// Text encodings accepted by cue.encoding.
const (
	EncodingAuto     = "auto"
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift-jis"
	EncodingGBK      = "gbk"
)

// Environment variables that override file values.
const (
	EnvOutputDir   = "BINMERGE_OUTPUT_DIR"
	EnvLogLevel    = "BINMERGE_LOG_LEVEL"
	EnvCueEncoding = "BINMERGE_CUE_ENCODING"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Output: Output{
			DirName:  defaultOutputDirName,
			FileType: defaultOutputFileType,
		},
		Cue: Cue{
			Encoding: defaultCueEncoding,
		},
		Copy: Copy{
			BufferKiB: defaultCopyBufferKiB,
		},
		Watch: Watch{
			SettleSeconds: defaultSettleSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
