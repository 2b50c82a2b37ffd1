package spec

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ProtocolVersionHeader carries the negotiated wire-format version on
	// both requests and responses.
	ProtocolVersionHeader = "X-RestLi-Protocol-Version"

	// MethodHeader selects the resource method kind for HTTP calls.
	MethodHeader = "X-RestLi-Method"
)

// ProtocolVersion is a major.minor.patch wire-format version.
type ProtocolVersion struct {
	Major int
	Minor int
	Patch int
}

var (
	// BaselineProtocolVersion is assumed when a request names no version.
	BaselineProtocolVersion = ProtocolVersion{Major: 1}
	// LatestProtocolVersion is the newest version this server can speak.
	LatestProtocolVersion = ProtocolVersion{Major: 2}
)

// ParseProtocolVersion parses "major[.minor[.patch]]".
func ParseProtocolVersion(s string) (ProtocolVersion, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 || len(parts) > 3 || parts[0] == "" {
		return ProtocolVersion{}, fmt.Errorf("invalid protocol version %q", s)
	}
	nums := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return ProtocolVersion{}, fmt.Errorf("invalid protocol version %q", s)
		}
		nums[i] = n
	}
	return ProtocolVersion{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 if v is lower, equal or greater than o.
func (v ProtocolVersion) Compare(o ProtocolVersion) int {
	a := [3]int{v.Major, v.Minor, v.Patch}
	b := [3]int{o.Major, o.Minor, o.Patch}
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// HeaderValue looks a header up ignoring case.
func HeaderValue(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// ExtractProtocolVersion reads the protocol version stamped on a headers map.
// Missing or malformed values fall back to the baseline version, so the
// result is always usable.
func ExtractProtocolVersion(headers map[string]string) ProtocolVersion {
	raw, ok := HeaderValue(headers, ProtocolVersionHeader)
	if !ok {
		return BaselineProtocolVersion
	}
	v, err := ParseProtocolVersion(raw)
	if err != nil {
		return BaselineProtocolVersion
	}
	return v
}

// NegotiateProtocolVersion picks the version a request will be answered
// with. An empty request value means baseline; anything above max is refused.
func NegotiateProtocolVersion(requested string, max ProtocolVersion) (ProtocolVersion, error) {
	if strings.TrimSpace(requested) == "" {
		return BaselineProtocolVersion, nil
	}
	v, err := ParseProtocolVersion(requested)
	if err != nil {
		return ProtocolVersion{}, err
	}
	if v.Compare(max) > 0 {
		return ProtocolVersion{}, fmt.Errorf("protocol version %s is above the supported maximum %s", v, max)
	}
	return v, nil
}
