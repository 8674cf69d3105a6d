// Package engine is the process-wide context the host build orchestrator
// constructs once per build session (spec.md §9 "Process-wide state"): it
// owns the Alias Map, Suffix Classifier, and Package Map, and exposes the
// orchestrator-facing API from spec.md §6 as methods.
package engine

import (
	"path/filepath"
	"sort"
	"sync"

	"code.cloudfoundry.org/aib/alias"
	"code.cloudfoundry.org/aib/autoinstall"
	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/suffix"
	"code.cloudfoundry.org/aib/tags"
	"code.cloudfoundry.org/aib/tarball"
	"github.com/hashicorp/go-multierror"
)

// InstallFunc performs the actual file copy for one (source, targetDir)
// pair, returning the graph node representing that install action. Supplied
// by the host orchestrator; Engine never touches a filesystem itself
// (spec.md §1 Out-of-scope).
type InstallFunc func(targetDir string, source *graph.Node) (*graph.Node, error)

// Engine is the process-wide AIB context. The zero value is not usable; use
// New.
type Engine struct {
	mu sync.Mutex

	g        *graph.Engine
	Config   Config
	Aliases  *alias.Map
	Suffixes *suffix.Map
	Packages *alias.PackageMap

	installer *autoinstall.Installer
	emitter   *autoinstall.Emitter
}

// New creates an Engine bound to the given build graph and install
// primitive, with the default suffix map registered (platform program
// suffix, shared/static libraries, debug info, headers, text and license
// files — original_source/auto_install_binaries.py's suffix_map, plus the
// static-archive and .hpp/.txt/license entries SPEC_FULL.md §4 adds).
func New(g *graph.Engine, install InstallFunc, cfg Config) (*Engine, error) {
	aliases := alias.NewMap(g)
	suffixes := suffix.New()
	packages := alias.NewPackageMap(cfg.PackagePrefix)
	installer := autoinstall.NewInstaller(aliases, install)

	e := &Engine{
		g:         g,
		Config:    cfg,
		Aliases:   aliases,
		Suffixes:  suffixes,
		Packages:  packages,
		installer: installer,
		emitter:   autoinstall.NewEmitter(installer, suffixes),
	}

	if err := e.registerDefaultSuffixes(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) registerDefaultSuffixes() error {
	var result *multierror.Error

	add := func(sfx string, directory string, roles ...string) {
		if err := e.Suffixes.Add(sfx, suffix.Entry{Directory: suffix.Literal(directory), DefaultRoles: roles}); err != nil {
			result = multierror.Append(result, err)
		}
	}
	addLiteral := func(name string, directory string, roles ...string) {
		if err := e.Suffixes.AddLiteral(name, suffix.Entry{Directory: suffix.Literal(directory), DefaultRoles: roles}); err != nil {
			result = multierror.Append(result, err)
		}
	}

	add("", e.Config.BinDir, "runtime")
	add(".a", e.Config.LibDir, "dev")
	add(".dll", e.Config.BinDir, "runtime")
	add(".dylib", e.Config.LibDir, "runtime", "dev")
	add(".so", e.Config.LibDir, "runtime", "dev")
	add(".dSYM", e.Config.LibDir, "runtime")
	add(".lib", e.Config.LibDir, "runtime")
	add(".txt", e.Config.InstallDir, "runtime", "dev")
	add(".h", e.Config.IncludeDir, "dev")
	add(".hpp", e.Config.IncludeDir, "dev")

	for _, sfx := range []string{".debug", ".dSYM"} {
		if err := e.Suffixes.Add(sfx, suffix.Entry{
			Directory:    suffix.DebugDirectoryOf(e.Config.DebugDir),
			DefaultRoles: []string{"debug"},
		}); err != nil {
			result = multierror.Append(result, err)
		}
	}

	addLiteral("LICENSE", e.Config.DocDir, "runtime", "dev")
	addLiteral("NOTICE", e.Config.DocDir, "runtime", "dev")

	return result.ErrorOrNil()
}

// SuffixMap constructs a suffix-mapping value for AddSuffixMapping (spec.md
// §6 "SuffixMap(directory, default_roles)").
func SuffixMap(directory suffix.DirectoryTemplate, defaultRoles ...string) suffix.Entry {
	return suffix.Entry{Directory: directory, DefaultRoles: defaultRoles}
}

// AddSuffixMapping registers one suffix → (directory, default roles) entry
// (spec.md §6's single-argument form). Fails with validation.InvalidRole if
// any of defaultRoles is outside the closed role set.
func (e *Engine) AddSuffixMapping(sfx string, directory suffix.DirectoryTemplate, defaultRoles ...string) error {
	return e.Suffixes.Add(sfx, SuffixMap(directory, defaultRoles...))
}

// AddSuffixMappings registers many suffix → entry mappings in one call
// (spec.md §6's batch form, `AddSuffixMapping({suffix: SuffixMap})`),
// collecting every failing entry via go-multierror rather than stopping at
// the first (spec.md §7 "a caller registering many suffixes in one call
// sees every bad entry"). Iterates suffixes in sorted order so the returned
// multierror is deterministic.
func (e *Engine) AddSuffixMappings(entries map[string]suffix.Entry) error {
	keys := make([]string, 0, len(entries))
	for sfx := range entries {
		keys = append(keys, sfx)
	}
	sort.Strings(keys)

	var result *multierror.Error
	for _, sfx := range keys {
		if err := e.Suffixes.Add(sfx, entries[sfx]); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// AddPackageNameAlias overrides the archive basename for one (component,
// role) slice (spec.md §6).
func (e *Engine) AddPackageNameAlias(component, role, name string) {
	e.Packages.AddPackageNameAlias(component, role, name)
}

// AutoInstall declares a staged install (spec.md §6's `AutoInstall`).
// Panics if called after FinalizeInstallDependencies (spec.md §9's
// cross-phase mutation guard, enforced by the underlying alias.Map).
func (e *Engine) AutoInstall(
	targetDir string,
	sources []*graph.Node,
	component string,
	role string,
	extraRoles []string,
	extraComponents []string,
) ([]*graph.Node, error) {
	return e.installer.AutoInstall(targetDir, sources, component, role, extraRoles, extraComponents)
}

// Emit runs the Auto-Install Emitter for one freshly-built target (spec.md
// §4.3), the hook a host orchestrator attaches to its Program/SharedLibrary/
// LoadableModule/StaticLibrary builders.
func (e *Engine) Emit(target *graph.Node, component, role string, extraComponents []string) error {
	return e.emitter.Emit(target, component, role, extraComponents)
}

// FinalizeInstallDependencies freezes the alias map, wires the cross-slice
// edges, and emits one TarBall node plus `tar-<c>[-<r>]` alias per
// registered (component, role) pair (spec.md §4.5, §6). Must be called
// exactly once; a second call panics (via alias.Map.Finalize).
func (e *Engine) FinalizeInstallDependencies() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.Aliases.Finalize(alias.DefaultLattice)

	for _, c := range e.Aliases.Components() {
		for _, r := range e.Aliases.Roles(c) {
			info := e.Aliases.Lookup(c, r)
			var commonJoin *alias.Info
			if c != "common" {
				commonJoin = e.Aliases.Lookup("common", r)
			}

			node := tarball.NewTarBallNode(c, r, info, commonJoin)
			if err := tags.SetTags(node, []string{c}, []string{r}); err != nil {
				return err
			}
			e.g.AddNode(node)
			e.Aliases.RegisterTarAlias(c, r, node)
		}
	}
	return nil
}

// TarBall returns the TarBall node for (component, role), or nil if that
// pair was never registered, or registered but FinalizeInstallDependencies
// hasn't run yet (spec.md §6's `TarBall`, "normally called internally").
func (e *Engine) TarBall(component, role string) *graph.Node {
	info := e.Aliases.TarAlias(component, role)
	if info == nil {
		return nil
	}
	return info.Node
}

// ArchiveName returns the "<prefix><basename>.tar.gz" filename
// FinalizeInstallDependencies will use for (component, role)'s tarball
// (spec.md §6 "Archive format").
func (e *Engine) ArchiveName(component, role string) string {
	return e.Packages.ArchiveName(component, role)
}

// TarJobs returns one tarball.Job per finalized (component, role) pair,
// with archive paths under archiveDir and the staged tree rooted at
// Config.DestDir. Must be called after FinalizeInstallDependencies.
func (e *Engine) TarJobs(archiveDir string) []tarball.Job {
	var jobs []tarball.Job
	for _, c := range e.Aliases.Components() {
		for _, r := range e.Aliases.Roles(c) {
			node := e.TarBall(c, r)
			if node == nil {
				continue
			}
			jobs = append(jobs, tarball.Job{
				ArchivePath: filepath.Join(archiveDir, e.ArchiveName(c, r)),
				Root:        e.Config.DestDir,
				Node:        node,
			})
		}
	}
	return jobs
}

// BuildTarBalls runs the Packager over every finalized (component, role)
// pair across a bounded worker pool, writing archives into archiveDir
// (spec.md §5 "orchestrator may invoke ... concurrently").
func (e *Engine) BuildTarBalls(workerCount int, run tarball.Runner, archiveDir string) []error {
	return tarball.BuildAll(workerCount, e.g, run, e.TarJobs(archiveDir))
}

// ListComponents returns the registered component names in sorted order
// (`list-aib-components`).
func (e *Engine) ListComponents() []string {
	return e.Aliases.Components()
}

// ListTargets returns every install-*/tar-* alias name in sorted order
// (`list-aib-targets`, spec.md §4.5 "Determinism").
func (e *Engine) ListTargets() []string {
	var names []string
	for _, c := range e.Aliases.Components() {
		for _, r := range e.Aliases.Roles(c) {
			names = append(names, alias.InstallName(c, r))
			if t := e.Aliases.TarAlias(c, r); t != nil {
				names = append(names, t.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}
