package site

import (
	"go.uber.org/zap"

	"github.com/kagai-portal/hanamachi/internal/config"
	"github.com/kagai-portal/hanamachi/internal/registry"
	"github.com/kagai-portal/hanamachi/internal/tabular"
)

// RegistryOptions maps the data section of cfg onto registry options for
// pages at the given depth.
func RegistryOptions(cfg *config.Config, isSubpage bool) registry.Options {
	return registry.Options{
		PlacesJSON:    cfg.Data.PlacesJSON,
		PlacesTabular: cfg.Data.PlacesTabular,
		EventsJSON:    cfg.Data.EventsJSON,
		EventsTabular: cfg.Data.EventsTabular,
		Builtin:       cfg.Data.UseBuiltinEvents,
		Normalizer:    tabular.Normalizer{IsSubpage: isSubpage},
	}
}

// Registries holds one registry per page depth; asset and detail links
// differ between root pages and pages/ pages.
type Registries struct {
	Root    *registry.Registry
	Subpage *registry.Registry
}

// NewRegistries builds both registries over src.
func NewRegistries(cfg *config.Config, src registry.Source, logger *zap.Logger) Registries {
	return Registries{
		Root:    registry.New(src, RegistryOptions(cfg, false), logger),
		Subpage: registry.New(src, RegistryOptions(cfg, true), logger),
	}
}

// For returns the registry for a page depth.
func (r Registries) For(isSubpage bool) *registry.Registry {
	if isSubpage {
		return r.Subpage
	}
	return r.Root
}

// Invalidate drops both registries' memoized data.
func (r Registries) Invalidate() {
	r.Root.Invalidate()
	r.Subpage.Invalidate()
}
