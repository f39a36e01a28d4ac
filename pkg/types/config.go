package types

import (
	"time"

	"github.com/spf13/viper"
)

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout bounds a single upstream call, including retries.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bioregistry-curator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// PubMedConfig holds settings for the NCBI E-utilities metadata provider.
type PubMedConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities root (default https://eutils.ncbi.nlm.nih.gov/entrez/eutils/).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey raises the NCBI rate limit from 3 to 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Email identifies the caller to NCBI.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// AgentKind selects the scraper agent implementation.
type AgentKind string

const (
	AgentHTML      AgentKind = "html"
	AgentContainer AgentKind = "container"
)

// ScrapeConfig holds settings for the scraper agent and its invoker.
type ScrapeConfig struct {
	// Agent selects html (in-process goquery scraper) or container
	// (browser-automation agent run through docker or podman).
	Agent AgentKind `json:"agent" yaml:"agent" mapstructure:"agent"`

	// Timeout bounds one scrape attempt (default 3m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxBodyBytes caps how much of a homepage the html agent reads.
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	// ContainerImage is the agent image for the container agent.
	ContainerImage string `json:"container_image,omitempty" yaml:"container_image,omitempty" mapstructure:"container_image"`

	// ContainerEnv lists KEY=VALUE pairs passed to the agent container.
	ContainerEnv []string `json:"container_env,omitempty" yaml:"container_env,omitempty" mapstructure:"container_env"`
}

// ResolveConfig holds settings for picking the database URL.
type ResolveConfig struct {
	// ExtraDeniedHosts extends the built-in publisher deny-list.
	ExtraDeniedHosts []string `json:"extra_denied_hosts,omitempty" yaml:"extra_denied_hosts,omitempty" mapstructure:"extra_denied_hosts"`
}

// BacklogConfig holds settings for the candidate publication dataset.
type BacklogConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// SourceURL is the remote TSV of scored candidate publications.
	SourceURL string `json:"source_url" yaml:"source_url" mapstructure:"source_url"`

	// SourceFile, when set, is used instead of SourceURL and reloaded on change.
	SourceFile string `json:"source_file,omitempty" yaml:"source_file,omitempty" mapstructure:"source_file"`

	// CacheDuration is how long a fetched dataset is served before refreshing (default 1h).
	CacheDuration time.Duration `json:"cache_duration" yaml:"cache_duration" mapstructure:"cache_duration"`

	// RetryInterval is how long a failed refresh keeps serving the cached
	// dataset before fetching again (default 1m).
	RetryInterval time.Duration `json:"retry_interval" yaml:"retry_interval" mapstructure:"retry_interval"`

	IDColumn    string `json:"id_column" yaml:"id_column" mapstructure:"id_column"`
	LabelColumn string `json:"label_column" yaml:"label_column" mapstructure:"label_column"`

	// RankColumn is the numeric column the default comparator orders by.
	RankColumn     string `json:"rank_column" yaml:"rank_column" mapstructure:"rank_column"`
	RankDescending bool   `json:"rank_descending" yaml:"rank_descending" mapstructure:"rank_descending"`

	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// RegistryConfig holds settings for the local curated-publication store.
type RegistryConfig struct {
	// DBPath is the SQLite database file (default data/curated.db).
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`

	// RegistryURL is the bioregistry JSON export imported by "curated import".
	RegistryURL string `json:"registry_url" yaml:"registry_url" mapstructure:"registry_url"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr           string        `json:"addr" yaml:"addr" mapstructure:"addr"`
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	AllowedOrigins []string      `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// MaxConcurrentExtractions caps in-flight extraction requests (default 4).
	MaxConcurrentExtractions int `json:"max_concurrent_extractions" yaml:"max_concurrent_extractions" mapstructure:"max_concurrent_extractions"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	JSON  bool   `json:"json" yaml:"json" mapstructure:"json"`
}

// CuratorConfig groups all component configurations.
type CuratorConfig struct {
	PubMed   PubMedConfig   `json:"pubmed" yaml:"pubmed" mapstructure:"pubmed"`
	Scrape   ScrapeConfig   `json:"scrape" yaml:"scrape" mapstructure:"scrape"`
	Resolve  ResolveConfig  `json:"resolve" yaml:"resolve" mapstructure:"resolve"`
	Backlog  BacklogConfig  `json:"backlog" yaml:"backlog" mapstructure:"backlog"`
	Registry RegistryConfig `json:"registry" yaml:"registry" mapstructure:"registry"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}

const defaultUserAgent = "bioregistry-curator/0.1"

// DefaultPredictionsURL is the bioregistry paper-ranking export.
const DefaultPredictionsURL = "https://raw.githubusercontent.com/biopragmatics/bioregistry/main/exports/analyses/paper_ranking/predictions.tsv"

// DefaultRegistryURL is the bioregistry registry export.
const DefaultRegistryURL = "https://raw.githubusercontent.com/biopragmatics/bioregistry/main/src/bioregistry/data/bioregistry.json"

// SetDefaults registers every configuration key with its default value so
// that environment variables and config files can override any of them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pubmed.timeout", 30*time.Second)
	v.SetDefault("pubmed.user_agent", defaultUserAgent)
	v.SetDefault("pubmed.base_url", "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/")
	v.SetDefault("pubmed.api_key", "")
	v.SetDefault("pubmed.email", "")
	v.SetDefault("pubmed.requests_per_second", 3.0)
	v.SetDefault("pubmed.max_retries", 3)

	v.SetDefault("scrape.agent", string(AgentHTML))
	v.SetDefault("scrape.timeout", 3*time.Minute)
	v.SetDefault("scrape.user_agent", defaultUserAgent)
	v.SetDefault("scrape.max_body_bytes", int64(5<<20))
	v.SetDefault("scrape.container_image", "")
	v.SetDefault("scrape.container_env", []string{})

	v.SetDefault("resolve.extra_denied_hosts", []string{})

	v.SetDefault("backlog.timeout", 30*time.Second)
	v.SetDefault("backlog.user_agent", defaultUserAgent)
	v.SetDefault("backlog.source_url", DefaultPredictionsURL)
	v.SetDefault("backlog.source_file", "")
	v.SetDefault("backlog.cache_duration", time.Hour)
	v.SetDefault("backlog.retry_interval", time.Minute)
	v.SetDefault("backlog.id_column", "pubmed")
	v.SetDefault("backlog.label_column", "title")
	v.SetDefault("backlog.rank_column", "score")
	v.SetDefault("backlog.rank_descending", true)
	v.SetDefault("backlog.max_retries", 3)

	v.SetDefault("registry.db_path", "data/curated.db")
	v.SetDefault("registry.registry_url", DefaultRegistryURL)

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 5*time.Minute)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_concurrent_extractions", 4)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
}

// LoadConfig decodes the settings held by v into a CuratorConfig.
func LoadConfig(v *viper.Viper) (CuratorConfig, error) {
	var cfg CuratorConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return CuratorConfig{}, err
	}
	return cfg, nil
}
