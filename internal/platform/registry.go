// Package platform maps sales channels to the column names their exports
// use for identifier, date, and amount fields.
package platform

import "fmt"

// Mapping names the columns holding the three fields the extractor needs.
type Mapping struct {
	SKUField    string
	DateField   string
	AmountField string
}

// MissingMappingError reports a platform with neither a registry entry nor
// caller-supplied field names. Extraction cannot proceed until the caller
// provides a Mapping; this is a required-input condition, not a crash.
type MissingMappingError struct {
	Platform string
}

func (e *MissingMappingError) Error() string {
	return fmt.Sprintf("no field mapping registered for platform %q and no override supplied", e.Platform)
}

// Registry is a static platform-to-mapping table. Entries are fixed once
// the registry is built; unknown platforms go through the override path.
type Registry struct {
	mappings map[string]Mapping
}

// NewRegistry copies the given entries into a Registry.
func NewRegistry(mappings map[string]Mapping) *Registry {
	copied := make(map[string]Mapping, len(mappings))
	for name, m := range mappings {
		copied[name] = m
	}
	return &Registry{mappings: copied}
}

// Resolve returns the registered mapping for a platform. For unregistered
// platforms the caller-supplied override is used; with no override either,
// a MissingMappingError is returned.
func (r *Registry) Resolve(platform string, override *Mapping) (Mapping, error) {
	if m, ok := r.mappings[platform]; ok {
		return m, nil
	}
	if override != nil {
		return *override, nil
	}
	return Mapping{}, &MissingMappingError{Platform: platform}
}

// Known reports whether the platform has a registry entry.
func (r *Registry) Known(platform string) bool {
	_, ok := r.mappings[platform]
	return ok
}

// Platforms returns the registered platform names, order unspecified.
func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.mappings))
	for name := range r.mappings {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns the mappings for the platforms whose exports we
// see in production. Sheet names in the sales workbook match these keys.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Mapping{
		"HDCarroSales": {SKUField: "Vendor SKU", DateField: "Order Date", AmountField: "Promotion Sales"},
		"HDCASales":    {SKUField: "Vendor SKU", DateField: "Order Date", AmountField: "Sales"},
		"HDTriSales":   {SKUField: "Vendor SKU", DateField: "Order Date", AmountField: "Sales"},
		"LSSales":      {SKUField: "Item Number", DateField: "PO Date", AmountField: "Promotion Total Amount"},
		"MSSales":      {SKUField: "Item Number", DateField: "PO Date", AmountField: "Total Amount"},
		"OSSales":      {SKUField: "Item Number", DateField: "PO Date", AmountField: "Total Amount"},
		"WFCarroSales": {SKUField: "Item Number", DateField: "PO Date", AmountField: "Total Amount"},
		"WFTriSales":   {SKUField: "Item Number", DateField: "PO Date", AmountField: "Total Amount"},
		"WFSanSales":   {SKUField: "Item Number", DateField: "PO Date", AmountField: "Total Amount"},
		"WFQZSales":    {SKUField: "Item Number", DateField: "PO Date", AmountField: "Total Amount"},
		"LumensSales":  {SKUField: "Item Number", DateField: "PO Date", AmountField: "Total Amount"},
	})
}
