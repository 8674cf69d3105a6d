package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"code.cloudfoundry.org/aib/engine"
	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/suffix"
)

// Manifest is the yaml document `aib` replays against a fresh engine.Engine:
// a declaration-phase recording of one build session's suffix mappings,
// package-name aliases, and AutoInstall calls. A real host orchestrator
// calls the engine library directly instead of writing one of these; the
// manifest format exists so this command can exercise the engine end to
// end without an orchestrator attached.
type Manifest struct {
	Suffixes []ManifestSuffix  `yaml:"suffixes"`
	Packages []ManifestPackage `yaml:"packages"`
	Installs []ManifestInstall `yaml:"installs"`
}

// ManifestSuffix is one AddSuffixMapping call.
type ManifestSuffix struct {
	Suffix       string   `yaml:"suffix"`
	Literal      bool     `yaml:"literal"`
	Directory    string   `yaml:"directory"`
	DefaultRoles []string `yaml:"default_roles"`
}

// ManifestPackage is one AddPackageNameAlias call.
type ManifestPackage struct {
	Component string `yaml:"component"`
	Role      string `yaml:"role"`
	Name      string `yaml:"name"`
}

// ManifestInstall is one AutoInstall call. Sources are paths relative to
// the manifest file's own directory; they are staged into TargetDir by
// copying, the one place this command touches a real filesystem.
type ManifestInstall struct {
	TargetDir       string   `yaml:"target_dir"`
	Sources         []string `yaml:"sources"`
	Component       string   `yaml:"component"`
	Role            string   `yaml:"role"`
	ExtraRoles      []string `yaml:"extra_roles"`
	ExtraComponents []string `yaml:"extra_components"`
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// fileInstall copies source's content into targetDir/<basename> and returns
// the graph node representing the staged copy, the InstallFunc a real host
// orchestrator's builder would supply (spec.md §1: AIB never touches a
// filesystem itself, only the caller-supplied install primitive does).
func fileInstall(targetDir string, source *graph.Node) (*graph.Node, error) {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("fileInstall: %w", err)
	}

	dest := filepath.Join(targetDir, filepath.Base(source.Name))

	in, err := os.Open(source.Name)
	if err != nil {
		return nil, fmt.Errorf("fileInstall: opening %s: %w", source.Name, err)
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return nil, fmt.Errorf("fileInstall: creating %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return nil, fmt.Errorf("fileInstall: copying %s to %s: %w", source.Name, dest, err)
	}

	return graph.New(dest, source), nil
}

// BuildEngine constructs a fresh graph.Engine and engine.Engine, registers
// any suffix mappings and package-name aliases the manifest declares, then
// replays its AutoInstall declarations against manifestDir-relative source
// paths. The returned engine.Engine has not been finalized.
func BuildEngine(m *Manifest, manifestDir string, cfg engine.Config) (*engine.Engine, *graph.Engine, error) {
	g := graph.NewEngine()
	e, err := engine.New(g, fileInstall, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("building engine: %w", err)
	}

	for _, s := range m.Suffixes {
		entry := engine.SuffixMap(suffix.Literal(s.Directory), s.DefaultRoles...)
		if s.Literal {
			err = e.Suffixes.AddLiteral(s.Suffix, entry)
		} else {
			err = e.Suffixes.Add(s.Suffix, entry)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("suffix mapping %q: %w", s.Suffix, err)
		}
	}

	for _, p := range m.Packages {
		e.AddPackageNameAlias(p.Component, p.Role, p.Name)
	}

	for _, ins := range m.Installs {
		sources := make([]*graph.Node, 0, len(ins.Sources))
		for _, src := range ins.Sources {
			path := src
			if !filepath.IsAbs(path) {
				path = filepath.Join(manifestDir, path)
			}
			n := graph.New(path)
			g.AddNode(n)
			sources = append(sources, n)
		}

		if _, err := e.AutoInstall(ins.TargetDir, sources, ins.Component, ins.Role, ins.ExtraRoles, ins.ExtraComponents); err != nil {
			return nil, nil, fmt.Errorf("install %s/%s: %w", ins.Component, ins.Role, err)
		}
	}

	return e, g, nil
}
