package config

// DefaultFile is the configuration file looked up when --config is not given.
const DefaultFile = "hanamachi.yml"

// DefaultInclude are the passthrough globs copied verbatim into the output.
var DefaultInclude = []string{
	"css/**",
	"js/**",
	"images/**",
	"assets/**",
	"favicon.ico",
	"robots.txt",
	"CNAME",
}

// DefaultExcludes are glob patterns never copied into the output.
var DefaultExcludes = []string{
	"node_modules/**",
	".git/**",
	"_site/**",
	"**/.DS_Store",
	"**/~$*",
	"**/*.tmp",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title: "全国花街ポータル",
			URL:   "https://hanamachi-portal.com",
		},
		SourceDir:     ".",
		OutputDir:     "_site",
		SubpageMarker: "/pages/",
		Include:       append([]string(nil), DefaultInclude...),
		Exclude:       append([]string(nil), DefaultExcludes...),
		Data: DataConfig{
			PlacesJSON:       "assets/kagai-data.json",
			PlacesTabular:    "assets/花街map.xlsx",
			EventsJSON:       "assets/events-data.json",
			EventsTabular:    "assets/全国花街ポータルサイト_東京_仮行事スケ_上半期_20250907.xlsx",
			UseBuiltinEvents: true,
		},
		Serve: ServeConfig{
			Port: 8080,
		},
		LogLevel:  "info",
		LogFormat: "console",
	}
}
