package documents

import (
	"bytes"
	"encoding/json"
)

// NormalizeList coerces a backend list payload into one canonical slice.
//
// The backend has historically answered list requests in three shapes: a
// bare array, {"data":[...]}, and {"documents":[...]}. This shim is a
// compatibility adapter at the boundary; the canonical shape going forward
// is {"data":[...]}. A payload matching none of the shapes yields an empty
// list rather than failing.
func NormalizeList(raw json.RawMessage) []Document {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []Document{}
	}

	if trimmed[0] == '[' {
		var docs []Document
		if json.Unmarshal(trimmed, &docs) == nil && docs != nil {
			return docs
		}
		return []Document{}
	}

	var wrapped struct {
		Data      []Document `json:"data"`
		Documents []Document `json:"documents"`
	}
	if json.Unmarshal(trimmed, &wrapped) == nil {
		if wrapped.Data != nil {
			return wrapped.Data
		}
		if wrapped.Documents != nil {
			return wrapped.Documents
		}
	}
	return []Document{}
}
