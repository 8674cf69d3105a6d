// Package autoinstall implements the Auto-Install Emitter (spec.md §4.3) and
// the Installer / AutoInstall entry point (spec.md §4.4): the glue that
// turns a freshly-built artifact into a staged install action plus its
// (component, role) alias edges.
package autoinstall

import (
	"fmt"
	"strings"

	"code.cloudfoundry.org/aib/alias"
	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/suffix"
	"code.cloudfoundry.org/aib/tags"
	"code.cloudfoundry.org/aib/validation"
)

// Installer installs build artifacts into their classified directories and
// wires the resulting install actions into the alias map. It is the
// process-wide home for AutoInstall; package engine constructs one per
// build and exposes it through its own AutoInstall method.
type Installer struct {
	Aliases *alias.Map

	// Install performs the actual file copy for one (source, targetDir)
	// pair and returns the graph node representing that install action.
	// The host orchestrator supplies this — AutoInstall itself never
	// touches a filesystem (spec.md §1 Out-of-scope).
	Install func(targetDir string, source *graph.Node) (*graph.Node, error)
}

// NewInstaller creates an Installer bound to the given alias map.
func NewInstaller(aliases *alias.Map, install func(string, *graph.Node) (*graph.Node, error)) *Installer {
	return &Installer{Aliases: aliases, Install: install}
}

// AutoInstall is the `AutoInstall` entry point from spec.md §4.4: given a
// target directory and one or more source nodes, stage each source into
// targetDir, tag it with the inherited component/role plus any extras, and
// wire install-<c>[-<r>] alias edges for every (component, role) pair.
//
// Tags, install actions and alias edges are all unions (tags.SetTags,
// tags.AddInstallAction, alias.DependOnNode), so a repeated call for the same
// (source, targetDir) pair duplicates nothing when Install returns the same
// node again. AutoInstall keeps no record of earlier calls and calls Install
// every time: when Install returns a new node per call, the source gets one
// install action per call, all wired into the same aliases.
func (ins *Installer) AutoInstall(
	targetDir string,
	sources []*graph.Node,
	component string,
	role string,
	extraRoles []string,
	extraComponents []string,
) ([]*graph.Node, error) {
	components := dedupNonEmpty(append([]string{component, "all"}, extraComponents...))
	for _, c := range components {
		if strings.ContainsAny(c, " \t\n\r") {
			return nil, validation.InvalidComponent("component", c)
		}
	}
	roles := dedupNonEmpty(append([]string{role, "meta"}, extraRoles...))

	actions := make([]*graph.Node, 0, len(sources))
	for _, source := range sources {
		action, err := ins.Install(targetDir, source)
		if err != nil {
			return nil, err
		}
		tags.SetKeepTargetInfo(source)
		tags.MarkInstallAction(action)
		tags.AddInstallAction(source, action)
		if err := tags.SetTags(source, components, roles); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}

	for _, c := range components {
		for _, r := range roles {
			info := ins.Aliases.EnsureInstallAlias(c, r)
			for _, action := range actions {
				alias.DependOnNode(info, action)
			}
		}
	}

	// Step 6: the "base" escape hatch is structural, not content-bearing —
	// every (c, r) pair depends on install-<c>-base, and every pair other
	// than (common, base) also depends on install-common-base, regardless
	// of whether anything has ever been explicitly tagged "base".
	for _, c := range components {
		for _, r := range roles {
			info := ins.Aliases.EnsureInstallAlias(c, r)
			if r != "base" {
				alias.DependOn(info, ins.Aliases.EnsureInstallAlias(c, "base"))
			}
			if !(c == "common" && r == "base") {
				alias.DependOn(info, ins.Aliases.EnsureInstallAlias("common", "base"))
			}
		}
	}

	return actions, nil
}

func dedupNonEmpty(values []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Emitter is the Auto-Install Emitter from spec.md §4.3: attached to the
// emitter chain of each artifact-producing builder (Program, SharedLibrary,
// LoadableModule, StaticLibrary, and any user-registered builder). For
// every target node it consults the Suffix Classifier and, on a match,
// invokes AutoInstall with the inherited component/role and the suffix
// entry's default roles.
type Emitter struct {
	Installer *Installer
	Suffixes  *suffix.Map
}

// NewEmitter creates an Emitter bound to the given installer and suffix
// classifier.
func NewEmitter(installer *Installer, suffixes *suffix.Map) *Emitter {
	return &Emitter{Installer: installer, Suffixes: suffixes}
}

// optOut is the marker MarkIgnoreAutoinstall stores on a target node with
// graph.Node.SetAttributes to opt it out of auto-install (spec.md §4.3
// step 1). It is not a component/role classification and is not a field of
// tags.Attributes.
type optOut struct{ marked bool }

// MarkIgnoreAutoinstall opts node out of the Auto-Install Emitter.
func MarkIgnoreAutoinstall(n *graph.Node) {
	n.SetAttributes(optOut{marked: true})
}

func isOptedOut(n *graph.Node) bool {
	out, ok := n.Attributes().(optOut)
	return ok && out.marked
}

// Emit runs the emitter for one target node built with the given inherited
// component/role/extra-components. It never alters the target; it only
// registers AutoInstall side effects on the graph (spec.md §4.3 "The
// emitter never returns an altered target list").
func (e *Emitter) Emit(target *graph.Node, component, role string, extraComponents []string) error {
	if isOptedOut(target) {
		return nil
	}

	entry, ok := e.Suffixes.Classify(target.Name)
	if !ok {
		return nil
	}
	directory, err := entry.Directory(e.Suffixes, target)
	if err != nil {
		return fmt.Errorf("autoinstall: classify %s: %w", target.Name, err)
	}

	_, err = e.Installer.AutoInstall(directory, []*graph.Node{target}, component, role, entry.DefaultRoles, extraComponents)
	return err
}
