package spec

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CompoundKey is a resource key made of several named parts.
type CompoundKey map[string]interface{}

// EncodeKey renders a resource key the way it appears in a response body for
// the given protocol version. Primitive keys are printed as is; compound keys
// use "a=1&b=2" before 2.0.0 and "(a:1,b:2)" from 2.0.0 on. Parts are sorted by
// name so the output is stable.
func EncodeKey(id interface{}, v ProtocolVersion) string {
	switch k := id.(type) {
	case nil:
		return ""
	case string:
		return k
	case CompoundKey:
		return encodeCompound(k, v)
	case map[string]interface{}:
		return encodeCompound(k, v)
	case fmt.Stringer:
		return k.String()
	}
	return fmt.Sprint(id)
}

func encodeCompound(k map[string]interface{}, v ProtocolVersion) string {
	names := make([]string, 0, len(k))
	for name := range k {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	if v.Major >= 2 {
		for i, name := range names {
			parts[i] = name + ":" + EncodeKey(k[name], v)
		}
		return "(" + strings.Join(parts, ",") + ")"
	}
	for i, name := range names {
		parts[i] = name + "=" + EncodeKey(k[name], v)
	}
	return strings.Join(parts, "&")
}

// KeyLocation joins a base resource URI and an encoded key into the location
// of a created entity.
func KeyLocation(baseURI string, id interface{}, v ProtocolVersion) string {
	return strings.TrimRight(baseURI, "/") + "/" + url.PathEscape(EncodeKey(id, v))
}
