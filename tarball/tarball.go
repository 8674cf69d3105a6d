// Package tarball implements the Packager (spec.md §4.7): it resolves the
// transitive set of staged files reachable from a finalized (component,
// role) alias and archives them into a gzip-compressed POSIX tar via a
// subprocess, mirroring the teacher's builder/role_image.go in spirit (a
// tar-writing walk driven by tag metadata) but writing gzip tar through
// `tar(1)` rather than Go's archive/tar in-process, per spec.md's exact
// command shape.
package tarball

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"code.cloudfoundry.org/aib/alias"
	"code.cloudfoundry.org/aib/graph"
	"code.cloudfoundry.org/aib/internal/buildpool"
	"code.cloudfoundry.org/aib/scanner"
	"code.cloudfoundry.org/aib/tags"
	"code.cloudfoundry.org/aib/util"
	"code.cloudfoundry.org/aib/validation"
)

// ComponentBoundary is the packager's boundary_callback (spec.md §4.7): in
// addition to the Transitive Scanner's own role-boundary rule, it drops an
// edge whose child shares no component with the origin, unless the edge
// already crosses via the "base" escape hatch.
func ComponentBoundary(origin, child scanner.EdgeTags, actions []*graph.Node) []*graph.Node {
	if _, ok := origin.Roles["base"]; ok {
		return actions
	}
	if _, ok := child.Roles["base"]; ok {
		return actions
	}
	for c := range origin.Components {
		if _, ok := child.Components[c]; ok {
			return actions
		}
	}
	return nil
}

// NewTarBallNode creates the bare TarBall node for (component, role): its
// sources are the (component, role) install alias and, when it exists, the
// common-role join for role (spec.md §4.5 step 3 "and the common-join for
// that role, if applicable"). It does not build anything — BuildOne does
// that later, in the execution phase.
func NewTarBallNode(component, role string, installAlias, commonJoin *alias.Info) *graph.Node {
	sources := []*graph.Node{installAlias.Node}
	if commonJoin != nil {
		sources = append(sources, commonJoin.Node)
	}
	return graph.New(fmt.Sprintf("tarball-%s-%s", component, role), sources...)
}

// CollectPaths resolves the transitive set of staged file paths reachable
// from the given alias/aggregator nodes (spec.md §4.7 "collect the
// transitive set of installed file paths"). It walks each node's Sources
// graph: install-action nodes (tags.IsInstallAction) are leaves whose Name
// is the staged file path; every other node is an aggregator (an alias or
// a TarBall's common-join source) and is walked further. Each install
// action discovered is then expanded with the Transitive Scanner under the
// component-aware boundary, and newly discovered actions are expanded in
// turn until no new action is found.
func CollectPaths(g *graph.Engine, roots []*graph.Node) ([]string, error) {
	queue := append([]*graph.Node{}, roots...)
	visitedNodes := map[*graph.Node]struct{}{}
	installActions := map[*graph.Node]struct{}{}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if _, ok := visitedNodes[n]; ok {
			continue
		}
		visitedNodes[n] = struct{}{}

		if tags.IsInstallAction(n) {
			installActions[n] = struct{}{}
			continue
		}
		queue = append(queue, n.Sources...)
	}

	toScan := make([]*graph.Node, 0, len(installActions))
	for n := range installActions {
		toScan = append(toScan, n)
	}

	for i := 0; i < len(toScan); i++ {
		transitive, err := scanner.Scan(g, toScan[i], ComponentBoundary)
		if err != nil {
			return nil, err
		}
		for _, action := range transitive {
			if _, ok := installActions[action]; ok {
				continue
			}
			installActions[action] = struct{}{}
			toScan = append(toScan, action)
		}
	}

	paths := make([]string, 0, len(installActions))
	for action := range installActions {
		paths = append(paths, action.Name)
	}
	sort.Strings(paths)
	return paths, nil
}

// Runner executes the final tar command. The host orchestrator's subprocess
// primitive satisfies this; ExecRunner is the production implementation.
type Runner func(name string, args ...string) error

// ExecRunner runs the named command via os/exec, writing its output to the
// current process's stdout/stderr.
func ExecRunner(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// BuildOne runs the Packager for a single TarBall node: resolves its
// transitive file set rooted under root, and writes archivePath as a
// gzip-compressed POSIX tar via `tar -P -czf archivePath -C root
// relative_paths...`. A no-op if the resolved file set is empty (spec.md
// §4.7 "If sources is empty, the action is a no-op"). A failing tar command
// is reported as a validation.PackageFailure.
func BuildOne(g *graph.Engine, run Runner, archivePath, root string, node *graph.Node) error {
	paths, err := CollectPaths(g, []*graph.Node{node})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	relative := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("tarball: %s is not under root %s: %w", p, root, err)
		}
		relative = append(relative, rel)
	}

	args := append([]string{"-P", "-czf", archivePath, "-C", root}, relative...)
	if err := run("tar", args...); err != nil {
		return validation.PackageFailure(archivePath, err.Error())
	}
	return nil
}

// LicenseFiles opens the produced archive at path and returns every file in
// it matching the default license-file prefixes (LICENSE, NOTICE), keyed by
// their path inside the archive. Used to audit a "meta"-role tarball for
// the license files the Suffix Classifier's literal entries staged into it.
func LicenseFiles(path string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return util.LoadLicenseFiles(path, f, util.DefaultLicensePrefixFilters...)
}

// Job is one archive to build: the finalized TarBall node plus where to
// write it and the root its paths are made relative to.
type Job struct {
	ArchivePath string
	Root        string
	Node        *graph.Node
}

// BuildAll runs every job across a bounded pool of workerCount goroutines
// (spec.md §5 "orchestrator may invoke ... concurrently"), adapted from the
// teacher's compilator.Compile via package buildpool. Each task only reads
// the build graph and alias/tag metadata — mutating them here would violate
// the execution phase's read-only discipline.
func BuildAll(workerCount int, g *graph.Engine, run Runner, jobs []Job) []error {
	tasks := make([]buildpool.Task, len(jobs))
	for i, job := range jobs {
		job := job
		tasks[i] = func() error {
			return BuildOne(g, run, job.ArchivePath, job.Root, job.Node)
		}
	}
	return buildpool.Run(workerCount, tasks)
}
