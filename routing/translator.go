package routing

// Translator maps canonical keys onto the alternate key scheme requested in
// the routing context. It holds no state.
type Translator struct{}

// TranslateKey returns id in the requested alternate scheme. When no
// alternate key is requested, or the resource does not know it, id is
// returned unchanged.
func (Translator) TranslateKey(id interface{}, r *Result) interface{} {
	if id == nil || r == nil || r.Context == nil || r.Context.AltKeyName == "" {
		return id
	}
	alt, ok := r.AltKey(r.Context.AltKeyName)
	if !ok || alt.FromCanonical == nil {
		return id
	}
	return alt.FromCanonical(id)
}
