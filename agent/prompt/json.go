package prompt

import (
	"bytes"
	"encoding/json"
	"strings"
)

// IndentJSON renders v the way prompts embed data: two-space indent,
// object keys sorted, non-ASCII and HTML characters left unescaped.
func IndentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
