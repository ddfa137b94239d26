// Package macro applies configurable text macros to segments and keeps the
// regeneration log.
package macro

// Macro identifiers.
const (
	RemoveFiller   = "removeFiller"
	RemoveStutter  = "removeStutter"
	AdjustPacing   = "adjustPacing"
	AdjustProsody  = "adjustProsody"
	EnhanceClarity = "enhanceClarity"
)

// IDs lists the known macros in display order.
var IDs = []string{RemoveFiller, RemoveStutter, AdjustPacing, AdjustProsody, EnhanceClarity}

// Options is one macro's configuration record.
type Options map[string]any

// Settings maps macro ids to their options.
type Settings map[string]Options

// DefaultSettings returns a fresh copy of the built-in macro settings.
func DefaultSettings() Settings {
	return Settings{
		RemoveFiller:   {"aggressiveness": 5, "preserveNatural": true},
		AdjustPacing:   {"paceMultiplier": 1.0, "pauseDuration": 0.5},
		RemoveStutter:  {"sensitivity": 7, "preserveEmphasis": true},
		EnhanceClarity: {"enhanceContractions": true, "preserveAccent": true},
	}
}

// Update merges key=value into macroID's record, leaving other keys and
// other macros untouched.
func (s Settings) Update(macroID, key string, value any) {
	opts, ok := s[macroID]
	if !ok {
		opts = Options{}
		s[macroID] = opts
	}
	opts[key] = value
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for id, opts := range s {
		cp := make(Options, len(opts))
		for k, v := range opts {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// Int reads an integer option. Float values (as produced by TOML or JSON
// decoding) are truncated.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// Float reads a float option.
func (o Options) Float(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// Bool reads a boolean option.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}
