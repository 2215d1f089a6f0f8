package complete

import (
	"strings"

	"convoagent/types"
)

// fieldSynonyms folds loose user phrasing into canonical values, per field.
// Keys are lowercase.
var fieldSynonyms = map[string]map[string]string{
	"platform": {
		"ig":        "Instagram",
		"insta":     "Instagram",
		"fb":        "Facebook",
		"face book": "Facebook",
		"li":        "LinkedIn",
		"linked in": "LinkedIn",
	},
	"status": {
		"draft":  "generated",
		"drafts": "generated",
		"live":   "published",
		"queued": "scheduled",
	},
	"channel": {
		"social":  "Social Media",
		"socials": "Social Media",
		"mail":    "Email",
		"blog":    "Blog",
	},
	"media": {
		"generated": "Generate",
		"ai":        "Generate",
		"own":       "Upload",
		"upload it": "Upload",
		"without":   "None",
	},
}

// normalize rewrites loosely-specified payload values to canonical forms in
// place, so synonyms do not count as missing when requiredness is evaluated.
// Enum values are also folded case-insensitively onto their canonical
// spelling.
func normalize(spec []types.FieldSpec, p types.Payload) {
	for _, f := range spec {
		raw := p.String(f.Name)
		if raw == "" {
			continue
		}
		folded := strings.ToLower(strings.TrimSpace(raw))

		if syn, ok := fieldSynonyms[f.Name]; ok {
			if canonical, hit := syn[folded]; hit {
				p[f.Name] = canonical
				continue
			}
		}
		for _, v := range f.Values {
			if strings.EqualFold(folded, v) {
				p[f.Name] = v
				break
			}
		}
	}
}
