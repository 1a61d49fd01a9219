package llm

import (
	"bytes"
	"encoding/json"
)

// StripCodeFence removes a surrounding markdown code fence (```json ... ```)
// and whitespace. Models sometimes wrap JSON this way even when asked not to.
func StripCodeFence(raw json.RawMessage) json.RawMessage {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		b = bytes.TrimPrefix(b, []byte("json"))
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}
