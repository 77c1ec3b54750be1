// Package providers wires every statement format into one registry.
package providers

import (
	"github.com/ledgerlift/statex/internal/importer"
	"github.com/ledgerlift/statex/internal/providers/epf"
	"github.com/ledgerlift/statex/internal/providers/geojit"
	"github.com/ledgerlift/statex/internal/providers/icici"
	"github.com/ledgerlift/statex/internal/providers/iifl"
	"github.com/ledgerlift/statex/internal/providers/lic"
)

// Default returns a registry holding all supported formats.
func Default() *importer.Registry {
	r := importer.NewRegistry()
	r.Register(importer.New(epf.Spec()))
	r.Register(importer.New(icici.TradesSpec()))
	r.Register(importer.New(icici.BenefitsSpec()))
	r.Register(importer.New(iifl.Spec()))
	r.Register(importer.New(geojit.Spec()))
	r.Register(importer.New(lic.ReceiptsSpec()))
	r.Register(importer.New(lic.SheetSpec()))
	return r
}
