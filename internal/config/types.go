package config

// Config is the top-level hanamachi configuration, corresponding to hanamachi.yml.
type Config struct {
	Site          SiteConfig     `yaml:"site" koanf:"site"`
	SourceDir     string         `yaml:"source_dir" koanf:"source_dir"`
	OutputDir     string         `yaml:"output_dir" koanf:"output_dir"`
	SubpageMarker string         `yaml:"subpage_marker" koanf:"subpage_marker"`
	TemplatesDir  string         `yaml:"templates_dir,omitempty" koanf:"templates_dir"`
	Include       []string       `yaml:"include" koanf:"include"`
	Exclude       []string       `yaml:"exclude" koanf:"exclude"`
	Data          DataConfig     `yaml:"data" koanf:"data"`
	Calendar      CalendarConfig `yaml:"calendar" koanf:"calendar"`
	Serve         ServeConfig    `yaml:"serve" koanf:"serve"`
	LogLevel      string         `yaml:"log_level" koanf:"log_level"`
	LogFormat     string         `yaml:"log_format" koanf:"log_format"`
}

// SiteConfig describes the published site.
type SiteConfig struct {
	Title    string `yaml:"title" koanf:"title"`
	URL      string `yaml:"url" koanf:"url"`
	BasePath string `yaml:"base_path,omitempty" koanf:"base_path"`
}

// DataConfig locates the spreadsheets and JSON caches relative to the
// source (or remote base) directory.
type DataConfig struct {
	PlacesJSON       string `yaml:"places_json" koanf:"places_json"`
	PlacesTabular    string `yaml:"places_tabular" koanf:"places_tabular"`
	EventsJSON       string `yaml:"events_json" koanf:"events_json"`
	EventsTabular    string `yaml:"events_tabular" koanf:"events_tabular"`
	UseBuiltinEvents bool   `yaml:"use_builtin_events" koanf:"use_builtin_events"`
	RemoteURL        string `yaml:"remote_url,omitempty" koanf:"remote_url"`
}

// CalendarConfig controls the pre-rendered calendar month.
type CalendarConfig struct {
	// Month is "YYYY-MM"; empty means the build date's month.
	Month string `yaml:"month,omitempty" koanf:"month"`
}

// ServeConfig holds preview server settings.
type ServeConfig struct {
	Port int `yaml:"port" koanf:"port"`
}
