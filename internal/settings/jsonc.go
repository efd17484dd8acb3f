package settings

import "github.com/tidwall/jsonc"

// toJSON blanks comments and trailing commas, keeping byte offsets and line
// breaks intact.
func toJSON(raw []byte) []byte {
	return jsonc.ToJSON(raw)
}

// hasComments reports whether clean differs from raw anywhere other than a
// blanked comma.
func hasComments(raw, clean []byte) bool {
	if len(raw) != len(clean) {
		return true
	}
	for i := range raw {
		if raw[i] != clean[i] && raw[i] != ',' {
			return true
		}
	}
	return false
}
