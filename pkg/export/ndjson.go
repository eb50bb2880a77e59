// Copyright 2025 The Ingesta Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// encodedDoc is one NDJSON line, or the encoding error that produced it.
type encodedDoc struct {
	data []byte
	err  error
}

// encodeNDJSON marshals a document to a single newline-terminated JSON line.
// Sanitization already restricted strings to printable ASCII, so HTML
// escaping is disabled to keep the output byte-for-byte predictable.
func encodeNDJSON(doc map[string]any, out chan<- encodedDoc) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		out <- encodedDoc{err: errors.Wrap(err, "encoding document")}
		return
	}
	out <- encodedDoc{data: buf.Bytes()}
}
