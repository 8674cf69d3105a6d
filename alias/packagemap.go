package alias

import (
	"fmt"
	"sync"

	"code.cloudfoundry.org/aib/util"
)

// PackageMap holds (component, role) → archive basename overrides plus a
// process-wide prefix (spec.md §3 "Package map", §6 AIB_PACKAGE_PREFIX).
// Adapted from the teacher's config-store.ConfigStoreManager, which paired
// a single process-wide prefix with a table of per-key overrides for BOSH
// configuration values; here the table maps (component, role) pairs to
// archive basenames instead of consul keys to deployment values.
type PackageMap struct {
	mu        sync.RWMutex
	prefix    string
	overrides map[string]map[string]string
}

// NewPackageMap creates an empty package map with the given prefix (may be
// empty).
func NewPackageMap(prefix string) *PackageMap {
	return &PackageMap{
		prefix:    prefix,
		overrides: map[string]map[string]string{},
	}
}

// SetPrefix updates the process-wide archive basename prefix
// (AIB_PACKAGE_PREFIX).
func (p *PackageMap) SetPrefix(prefix string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefix = prefix
}

// AddPackageNameAlias overrides the archive basename used for (component,
// role); spec.md §6's AddPackageNameAlias.
func (p *PackageMap) AddPackageNameAlias(component, role, name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	byRole, ok := p.overrides[component]
	if !ok {
		byRole = map[string]string{}
		p.overrides[component] = byRole
	}
	byRole[role] = name
}

// Basename returns the archive basename for (component, role): the
// registered override, used verbatim, or "<component>-<role>" by default
// (spec.md §6 "Archive format"), with each part passed through
// util.SanitizeArchiveName.
func (p *PackageMap) Basename(component, role string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if byRole, ok := p.overrides[component]; ok {
		if name, ok := byRole[role]; ok {
			return name
		}
	}
	return fmt.Sprintf("%s-%s", util.SanitizeArchiveName(component), util.SanitizeArchiveName(role))
}

// ArchiveName returns the full archive filename for (component, role):
// "<prefix><basename>.tar.gz".
func (p *PackageMap) ArchiveName(component, role string) string {
	p.mu.RLock()
	prefix := p.prefix
	p.mu.RUnlock()
	return util.PrefixString(fmt.Sprintf("%s.tar.gz", p.Basename(component, role)), prefix, "")
}
