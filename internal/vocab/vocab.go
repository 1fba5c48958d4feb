// Package vocab owns the controlled vocabularies of the reconciliation:
// marketplace channel names, carrier display names, the delivery-status
// exception taxonomy, and the set of accepted company codes. Defaults are
// embedded; any section can be overridden from a user-edited YAML file.
package vocab

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"tratativas/internal/models"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Vocabulary is the read-only configuration data injected into the
// reconciliation engine. Runs must never mutate it.
type Vocabulary struct {
	Marketplace  map[string]string `yaml:"marketplace"`
	Carrier      map[string]string `yaml:"carrier"`
	Status       map[string]string `yaml:"status"`
	CompanyCodes []int             `yaml:"company_codes"`

	// Derived at construction: marketplace keys folded to upper case and
	// company codes as a set.
	marketplaceUpper map[string]string
	companyCodes     map[int]struct{}
}

// Default returns the embedded vocabulary. The embedded file is part of
// the build, so a parse failure is a programming error.
func Default() *Vocabulary {
	v := &Vocabulary{}
	if err := yaml.Unmarshal(defaultsYAML, v); err != nil {
		panic(fmt.Sprintf("vocab: embedded defaults are invalid: %v", err))
	}
	v.finalize()
	return v
}

// Load reads a YAML override file. Sections present in the file replace
// the embedded defaults wholesale; absent sections keep the defaults.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse vocabulary file: %w", err)
	}

	v := Default()
	if override.Marketplace != nil {
		v.Marketplace = override.Marketplace
	}
	if override.Carrier != nil {
		v.Carrier = override.Carrier
	}
	if override.Status != nil {
		v.Status = override.Status
	}
	if override.CompanyCodes != nil {
		v.CompanyCodes = override.CompanyCodes
	}
	v.finalize()
	return v, nil
}

func (v *Vocabulary) finalize() {
	v.marketplaceUpper = make(map[string]string, len(v.Marketplace))
	for k, canonical := range v.Marketplace {
		v.marketplaceUpper[strings.ToUpper(k)] = canonical
	}
	v.companyCodes = make(map[int]struct{}, len(v.CompanyCodes))
	for _, c := range v.CompanyCodes {
		v.companyCodes[c] = struct{}{}
	}
}

// MarketplaceFor maps a raw channel value onto its canonical name. Lookup
// is case-insensitive. A missing value means the channel must be checked
// by hand; a present but unknown value passes through verbatim.
func (v *Vocabulary) MarketplaceFor(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.NeedsReview
	}
	if canonical, ok := v.marketplaceUpper[strings.ToUpper(trimmed)]; ok {
		return canonical
	}
	return raw
}

// CarrierFor maps a carrier name onto its display name; unknown carriers
// pass through unchanged.
func (v *Vocabulary) CarrierFor(raw string) string {
	if canonical, ok := v.Carrier[raw]; ok {
		return canonical
	}
	return raw
}

// StatusFor collapses a raw delivery occurrence onto its exception
// category; unknown occurrences pass through unchanged.
func (v *Vocabulary) StatusFor(raw string) string {
	if canonical, ok := v.Status[raw]; ok {
		return canonical
	}
	return raw
}

// AcceptsCompanyCode reports whether an order record with this company
// code belongs to the operation.
func (v *Vocabulary) AcceptsCompanyCode(code int) bool {
	_, ok := v.companyCodes[code]
	return ok
}
