package cfg

import (
	"log/slog"

	"github.com/lysyi3m/atom-comb/app/atom"
)

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	FeedsDir          string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Rendering
	Indent           int
	GeneratorName    string
	GeneratorURI     string
	GeneratorVersion string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}

// DefaultGenerator is the generator identity substituted for feeds that
// don't declare one.
func (c *Cfg) DefaultGenerator() atom.Generator {
	return atom.Generator{
		Value:   c.GeneratorName,
		URI:     c.GeneratorURI,
		Version: c.GeneratorVersion,
	}
}

func (c *Cfg) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
