package registry

// DefaultPlatform is the integration whose entities the patch targets.
const DefaultPlatform = "roborock"

// DefaultProblematicNames are the device-class display names the host is
// known to cache as original_name, shadowing the translation key.
var DefaultProblematicNames = []string{
	"Duration", "Battery", "Timestamp", "Enum",
	"Area", "Energy", "Power", "Volume",
}

// PatchOptions select which records the patch touches.
type PatchOptions struct {
	Platform         string
	ProblematicNames []string
}

// DefaultPatchOptions returns the options matching the stock integration.
func DefaultPatchOptions() PatchOptions {
	return PatchOptions{
		Platform:         DefaultPlatform,
		ProblematicNames: DefaultProblematicNames,
	}
}

// Change reports one patched record.
type Change struct {
	EntityID     string
	OriginalName string
}

// matches applies the four predicate conditions: owning platform, cached
// display name in the problematic set, a usable translation key, and the
// has_entity_name flag. Matching is exact string equality.
func matches(r *Record, opts PatchOptions) bool {
	if r.Platform != opts.Platform {
		return false
	}
	if r.OriginalName == nil {
		return false
	}
	found := false
	for _, name := range opts.ProblematicNames {
		if *r.OriginalName == name {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	if r.TranslationKey == nil || *r.TranslationKey == "" {
		return false
	}
	return r.HasEntityName
}

// Patch nulls the original_name of every record matching all four predicate
// conditions and reports what it changed. No other record and no other
// field is touched. Applying it twice is a no-op the second time: after the
// first pass original_name is null and no longer matches.
func Patch(doc *Document, opts PatchOptions) []Change {
	var changes []Change
	for i := range doc.Entities {
		r := &doc.Entities[i]
		if !matches(r, opts) {
			continue
		}
		changes = append(changes, Change{
			EntityID:     r.EntityID,
			OriginalName: *r.OriginalName,
		})
		r.ClearOriginalName()
	}
	return changes
}
