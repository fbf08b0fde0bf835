package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-tech-support/internal/adapter"
	"github.com/MKhiriev/go-tech-support/internal/logger"
	"github.com/MKhiriev/go-tech-support/internal/store"
	"github.com/MKhiriev/go-tech-support/models"
)

var (
	DriverSchema           = Schema{Entity: "driver", Table: "drivers", MirrorKey: "drivers"}
	GuideSchema            = Schema{Entity: "guide", Table: "guides", MirrorKey: "guides"}
	DisassemblyGuideSchema = Schema{Entity: "disassembly_guide", Table: "disassembly_guides", MirrorKey: "disassembly_guides"}
	DocumentSchema         = Schema{Entity: "document", Table: "documents", MirrorKey: "documents"}
	WindowsVersionSchema   = Schema{Entity: "windows_version", Table: "windows_versions", MirrorKey: "windows_versions"}
)

var _ Repository[models.Driver, models.DriverPatch] = (*ResilientRepository[models.Driver, models.DriverPatch])(nil)

// Catalog bundles the repositories of the support catalog.
type Catalog struct {
	Drivers           *ResilientRepository[models.Driver, models.DriverPatch]
	Guides            *ResilientRepository[models.Guide, models.GuidePatch]
	DisassemblyGuides *ResilientRepository[models.DisassemblyGuide, models.DisassemblyGuidePatch]
	Documents         *ResilientRepository[models.Document, models.DocumentPatch]
	WindowsVersions   *ResilientRepository[models.WindowsVersion, models.WindowsVersionPatch]
}

func NewCatalog(rows adapter.RowStore, mirror store.LocalMirror, metrics *Metrics) *Catalog {
	return &Catalog{
		Drivers:           NewResilientRepository[models.Driver, models.DriverPatch](DriverSchema, rows, mirror, metrics),
		Guides:            NewResilientRepository[models.Guide, models.GuidePatch](GuideSchema, rows, mirror, metrics),
		DisassemblyGuides: NewResilientRepository[models.DisassemblyGuide, models.DisassemblyGuidePatch](DisassemblyGuideSchema, rows, mirror, metrics),
		Documents:         NewResilientRepository[models.Document, models.DocumentPatch](DocumentSchema, rows, mirror, metrics),
		WindowsVersions:   NewResilientRepository[models.WindowsVersion, models.WindowsVersionPatch](WindowsVersionSchema, rows, mirror, metrics),
	}
}

// SeedSamples stores the baseline sample records of every entity. Records
// already present are kept as they are.
func (c *Catalog) SeedSamples(ctx context.Context) error {
	err := errors.Join(
		c.Drivers.Seed(ctx, sampleDrivers...),
		c.Guides.Seed(ctx, sampleGuides...),
		c.DisassemblyGuides.Seed(ctx, sampleDisassemblyGuides...),
		c.Documents.Seed(ctx, sampleDocuments...),
		c.WindowsVersions.Seed(ctx, sampleWindowsVersions...),
	)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Str("func", "Catalog.SeedSamples").Msg("sample catalog data ensured")
	return nil
}
