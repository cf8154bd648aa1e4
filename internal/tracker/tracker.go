// Package tracker implements the Usage Trackers: per-provider-family
// predicates that decide whether a request/response pair is eligible for
// usage observation, paired with an async sink that consumes the resulting
// UsageEvents off the request's critical path.
package tracker

import (
	"net/http"
	"strings"

	gateway "github.com/eugener/gandalf/internal"
	"github.com/eugener/gandalf/internal/respparser"
)

// openAICompatiblePaths are the request paths (relative to the provider
// segment) that carry a usage object in their response for OpenAI-family
// providers.
var openAICompatiblePaths = map[string]struct{}{
	"v1/chat/completions": {},
	"v1/completions":      {},
	"v1/embeddings":       {},
}

// ShouldTrack reports whether the forwarded request for p is eligible for
// usage observation, and the Family its response should be parsed as.
func ShouldTrack(r *http.Request, p gateway.ParsedPath) (respparser.Family, bool) {
	if r.Method != http.MethodPost {
		return respparser.FamilyNone, false
	}

	family := respparser.FamilyForProvider(strings.ToLower(p.Provider()))
	if family == respparser.FamilyNone {
		return respparser.FamilyNone, false
	}

	rest := strings.Join(p.Rest(), "/")
	switch family {
	case respparser.FamilyOpenAI:
		if _, ok := openAICompatiblePaths[rest]; !ok {
			return respparser.FamilyNone, false
		}
		return family, true

	case respparser.FamilyAnthropic:
		if !strings.Contains(rest, "v1/messages") {
			return respparser.FamilyNone, false
		}
		return family, true

	default:
		return respparser.FamilyNone, false
	}
}
