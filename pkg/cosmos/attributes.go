// Copyright 2025 ChainCodec Authors

package cosmos

import (
	"encoding/json"
	"fmt"
)

// attributePair mirrors cometbft's abcitypes.EventAttribute{Key, Value}
// shape in its JSON-array wire form.
type attributePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// parseAttributes accepts raw.Data in either of two shapes: a JSON
// array of {key,value} records, or a flat JSON object mapping
// attribute name straight to its string value.
func parseAttributes(data []byte) (map[string]string, error) {
	var pairs []attributePair
	if err := json.Unmarshal(data, &pairs); err == nil {
		out := make(map[string]string, len(pairs))
		for _, p := range pairs {
			out[p.Key] = p.Value
		}
		return out, nil
	}

	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err == nil {
		return obj, nil
	}

	return nil, fmt.Errorf("%w", ErrMalformedAttributes)
}
