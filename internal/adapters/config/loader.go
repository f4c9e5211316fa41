// Package config provides the kiln.yaml workspace loader.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds kiln.yaml at or above cwd and converts it into a workspace.
func (l *Loader) Load(cwd string) (*domain.Workspace, error) {
	configPath, err := DiscoverConfig(cwd)
	if err != nil {
		return nil, err
	}

	var kilnfile Kilnfile
	if err := readAndUnmarshalYAML(configPath, &kilnfile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	return l.buildWorkspace(configPath, &kilnfile)
}

// DiscoverConfig walks up from cwd and returns the path of the nearest kiln.yaml.
func DiscoverConfig(cwd string) (string, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}
	for {
		candidate := filepath.Join(dir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no workspace"), "cwd", cwd)
		}
		dir = parent
	}
}

func (l *Loader) buildWorkspace(configPath string, k *Kilnfile) (*domain.Workspace, error) {
	root := resolvePath(filepath.Dir(configPath), k.Root)

	mode, err := domain.ParseLockfileMode(k.LockfileMode)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "lockfile_mode", k.LockfileMode)
	}

	resources, err := buildResources(k.Resources)
	if err != nil {
		return nil, err
	}

	actions, err := l.buildActions(k.Actions)
	if err != nil {
		return nil, err
	}

	extensions, err := buildExtensions(k.Extensions)
	if err != nil {
		return nil, err
	}

	ws := &domain.Workspace{
		Root:         root,
		ExecRoot:     resolvePath(root, k.ExecRoot),
		LockfileMode: mode,
		Execution:    buildExecution(k.Execution),
		Resources:    resources,
		Actions:      actions,
		Extensions:   extensions,
	}
	return ws, nil
}

func buildExecution(dto ExecutionDTO) domain.ExecutionSettings {
	settings := domain.ExecutionSettings{
		Jobs:           dto.Jobs,
		LegacyFallback: dto.LegacyFallback,
		LocalAttempts:  dto.LocalAttempts,
	}
	for _, s := range dto.Strategies {
		settings.Strategies = append(settings.Strategies, domain.StrategySpec{
			Name:     strings.TrimSpace(s.Name),
			Platform: s.Platform,
			Deny:     slices.Clone(s.Deny),
		})
	}
	return settings
}

func buildResources(dto ResourcesDTO) (domain.ResourceSettings, error) {
	var settings domain.ResourceSettings

	if dto.Interval != "" {
		interval, err := time.ParseDuration(dto.Interval)
		if err != nil || interval <= 0 {
			return settings, zerr.With(
				zerr.Wrap(domain.ErrConfigParseFailed, "resources.interval must be a positive duration"),
				"interval", dto.Interval,
			)
		}
		settings.Interval = interval
	}

	switch mode := domain.ProbeMode(dto.Probe); mode {
	case "":
		settings.ProbeMode = domain.ProbeProcess
	case domain.ProbeProcess, domain.ProbeCgroup:
		settings.ProbeMode = mode
	default:
		return settings, zerr.With(zerr.Wrap(domain.ErrInvalidProbeMode, "resources.probe"), "probe", dto.Probe)
	}

	return settings, nil
}

func (l *Loader) buildActions(dtos map[string]*ActionDTO) ([]domain.ActionSpec, error) {
	names := make([]string, 0, len(dtos))
	for name := range dtos {
		names = append(names, name)
	}
	slices.Sort(names)

	actions := make([]domain.ActionSpec, 0, len(names))
	for _, name := range names {
		dto := dtos[name]
		if dto == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidAction, "empty action definition"), "action", name)
		}

		kind := domain.ActionKind(dto.Kind)
		switch kind {
		case domain.ActionCopyFile, domain.ActionCopyDirectory, domain.ActionSpawn:
		case "":
			if len(dto.Args) == 0 {
				return nil, zerr.With(zerr.Wrap(domain.ErrInvalidAction, "missing kind"), "action", name)
			}
			kind = domain.ActionSpawn
		default:
			err := zerr.With(zerr.Wrap(domain.ErrInvalidAction, "unknown kind"), "action", name)
			return nil, zerr.With(err, "kind", dto.Kind)
		}

		if kind != domain.ActionSpawn && len(dto.Args) > 0 {
			l.Logger.Warn(fmt.Sprintf("'args' of %s action %s have no effect", kind, name))
		}

		owner := dto.Owner
		if owner == "" {
			owner = "//:" + name
		}

		spec := domain.ActionSpec{
			Name:          name,
			Kind:          kind,
			Owner:         domain.NewActionOwner(owner, dto.Configuration),
			Mnemonic:      dto.Mnemonic,
			Inputs:        slices.Clone(dto.Inputs),
			Outputs:       slices.Clone(dto.Outputs),
			Executable:    dto.Executable,
			Args:          slices.Clone(dto.Args),
			Env:           dto.Env,
			ExecutionInfo: dto.ExecutionInfo,
			Progress:      dto.Progress,
		}
		if dto.Platform != "" {
			spec.Platform = domain.NewPlatform(dto.Platform)
		}
		actions = append(actions, spec)
	}
	return actions, nil
}

func buildExtensions(dtos []*ExtensionDTO) ([]domain.DeclaredExtension, error) {
	extensions := make([]domain.DeclaredExtension, 0, len(dtos))
	seen := make(map[domain.ModuleExtensionID]struct{}, len(dtos))

	for i, dto := range dtos {
		if dto == nil || dto.BzlFile == "" || dto.Name == "" {
			return nil, zerr.With(
				zerr.Wrap(domain.ErrConfigParseFailed, "extensions need a bzlFile and a name"),
				"index", i,
			)
		}

		var isolation domain.IsolationKey
		if dto.Isolation != nil {
			isolation = domain.IsolationKey{Module: dto.Isolation.Module, UsageExportedName: dto.Isolation.Usage}
		}
		id := domain.NewModuleExtensionID(dto.BzlFile, dto.Name).Isolated(isolation)

		if _, dup := seen[id]; dup {
			return nil, zerr.With(
				zerr.Wrap(domain.ErrConfigParseFailed, "extension declared twice"),
				"extension", id.String(),
			)
		}
		seen[id] = struct{}{}

		result := domain.ExtensionEvalResult{
			GeneratedRepoSpecs: make(map[string]domain.RepoSpec, len(dto.Repos)),
		}
		for name, repo := range dto.Repos {
			result.GeneratedRepoSpecs[name] = domain.RepoSpec{RuleClass: repo.Rule, Attributes: repo.Attrs}
		}
		if dto.Metadata != nil {
			result.Metadata = domain.ExtensionMetadata{
				HasRootDirectDeps: dto.Metadata.RootDirectDeps != nil,
				RootDirectDevDeps: slices.Clone(dto.Metadata.RootDirectDevDeps),
				Reproducible:      dto.Metadata.Reproducible,
			}
			if dto.Metadata.RootDirectDeps != nil {
				result.Metadata.RootDirectDeps = slices.Clone(*dto.Metadata.RootDirectDeps)
			}
		}
		if dto.Usage != nil {
			usage := &domain.ModuleExtensionUsage{
				ExtensionBzlFile: dto.BzlFile,
				ExtensionName:    dto.Name,
				IsolationKey:     isolation,
			}
			for _, p := range dto.Usage.Proxies {
				usage.Proxies = append(usage.Proxies, domain.UsageProxy{
					DevDependency: p.Dev,
					Imports:       p.Imports,
					Location:      p.Location,
				})
			}
			result.RootUsage = usage
		}
		if dto.LockfilePayload != "" {
			result.LockFilePayload = []byte(dto.LockfilePayload)
		}

		extensions = append(extensions, domain.DeclaredExtension{ID: id, Result: result})
	}
	return extensions, nil
}

func resolvePath(base, configured string) string {
	if configured == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Clean(filepath.Join(base, configured))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by the loader
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}
	return nil
}
