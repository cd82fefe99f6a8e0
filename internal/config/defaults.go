package config

const (
	defaultConfigPath    = "~/.config/vidmerge/config.toml"
	defaultDataDir       = "~/data/highspeed"
	defaultLogDir        = "~/.local/share/vidmerge/logs"
	defaultStateDir      = "~/.local/share/vidmerge"
	defaultFPS           = 50
	defaultPrefix        = "combined"
	defaultExt           = ".avi"
	defaultFourCC        = "MJPG"
	defaultHeightPolicy  = "strict"
	defaultBackend       = "ffmpeg"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultFFplayBinary  = "ffplay"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	historyFileName      = "history.db"

	// DataDirEnv overrides paths.data_dir when the file leaves it empty.
	DataDirEnv = "VIDMERGE_DATA_DIR"
)

var defaultCameras = []string{"Camera_1", "Camera_2"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Merge: Merge{
			Cameras:      append([]string(nil), defaultCameras...),
			FPS:          defaultFPS,
			Prefix:       defaultPrefix,
			InputExt:     defaultExt,
			OutputExt:    defaultExt,
			FourCC:       defaultFourCC,
			Preview:      false,
			HeightPolicy: defaultHeightPolicy,
			Backend:      defaultBackend,
		},
		FFmpeg: FFmpeg{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			FFplayBinary:  defaultFFplayBinary,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
