package config

// Kilnfile represents the structure of the kiln.yaml configuration file.
type Kilnfile struct {
	Version      string                `yaml:"version"`
	Root         string                `yaml:"root"`
	ExecRoot     string                `yaml:"execRoot"`
	LockfileMode string                `yaml:"lockfileMode"`
	Execution    ExecutionDTO          `yaml:"execution"`
	Resources    ResourcesDTO          `yaml:"resources"`
	Actions      map[string]*ActionDTO `yaml:"actions"`
	Extensions   []*ExtensionDTO       `yaml:"extensions"`
}

// ExecutionDTO configures dispatch.
type ExecutionDTO struct {
	Jobs           int           `yaml:"jobs"`
	LegacyFallback bool          `yaml:"legacyFallback"`
	LocalAttempts  int           `yaml:"localAttempts"`
	Strategies     []StrategyDTO `yaml:"strategies"`
}

// StrategyDTO is one entry of the strategy chain.
type StrategyDTO struct {
	Name     string   `yaml:"name"`
	Platform string   `yaml:"platform"`
	Deny     []string `yaml:"deny"`
}

// ResourcesDTO configures resource sampling.
type ResourcesDTO struct {
	Interval string `yaml:"interval"`
	Probe    string `yaml:"probe"`
}

// ActionDTO represents an action definition in the configuration.
type ActionDTO struct {
	Kind          string            `yaml:"kind"`
	Owner         string            `yaml:"owner"`
	Configuration string            `yaml:"configuration"`
	Mnemonic      string            `yaml:"mnemonic"`
	Inputs        []string          `yaml:"inputs"`
	Outputs       []string          `yaml:"outputs"`
	Executable    bool              `yaml:"executable"`
	Args          []string          `yaml:"args"`
	Env           map[string]string `yaml:"env"`
	ExecutionInfo map[string]string `yaml:"executionInfo"`
	Platform      string            `yaml:"platform"`
	Progress      string            `yaml:"progress"`
}

// ExtensionDTO declares the evaluation result of a module extension.
type ExtensionDTO struct {
	BzlFile         string                 `yaml:"bzlFile"`
	Name            string                 `yaml:"name"`
	Isolation       *IsolationDTO          `yaml:"isolation"`
	Repos           map[string]RepoSpecDTO `yaml:"repos"`
	Metadata        *MetadataDTO           `yaml:"metadata"`
	Usage           *UsageDTO              `yaml:"usage"`
	LockfilePayload string                 `yaml:"lockfilePayload"`
}

// IsolationDTO names an isolated usage.
type IsolationDTO struct {
	Module string `yaml:"module"`
	Usage  string `yaml:"usage"`
}

// RepoSpecDTO describes one generated repository.
type RepoSpecDTO struct {
	Rule  string            `yaml:"rule"`
	Attrs map[string]string `yaml:"attrs"`
}

// MetadataDTO is the metadata an extension reports. A nil RootDirectDeps means the
// extension did not declare its direct deps.
type MetadataDTO struct {
	RootDirectDeps    *[]string `yaml:"rootDirectDeps"`
	RootDirectDevDeps []string  `yaml:"rootDirectDevDeps"`
	Reproducible      bool      `yaml:"reproducible"`
}

// UsageDTO is the root module's usage of an extension.
type UsageDTO struct {
	Proxies []ProxyDTO `yaml:"proxies"`
}

// ProxyDTO is one use_extension proxy.
type ProxyDTO struct {
	Dev      bool              `yaml:"dev"`
	Imports  map[string]string `yaml:"imports"`
	Location string            `yaml:"location"`
}
