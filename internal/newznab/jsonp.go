package newznab

import "bytes"

// stripJSONP unwraps a "callback({...});" body down to the JSON inside. Plain
// JSON bodies are returned unchanged.
func stripJSONP(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed
	}
	open := bytes.IndexByte(trimmed, '(')
	end := bytes.LastIndexByte(trimmed, ')')
	if open <= 0 || end < open || !isCallbackName(trimmed[:open]) {
		return trimmed
	}
	rest := bytes.TrimSpace(trimmed[end+1:])
	if len(rest) > 0 && !bytes.Equal(rest, []byte(";")) {
		return trimmed
	}
	return bytes.TrimSpace(trimmed[open+1 : end])
}

func isCallbackName(name []byte) bool {
	name = bytes.TrimSpace(name)
	if len(name) == 0 {
		return false
	}
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '$', c == '.':
		default:
			return false
		}
	}
	return true
}
