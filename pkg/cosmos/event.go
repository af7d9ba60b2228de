// Copyright 2025 ChainCodec Authors
//
// Package cosmos implements the Cosmos ABCI attribute decoder,
// following cometbft's abcitypes.Event/EventAttribute shape as
// consumed JSON rather than Go structs.
package cosmos

import (
	"fmt"

	"github.com/chaincodec/chaincodec/pkg/decode"
	"github.com/chaincodec/chaincodec/pkg/schema"
	"github.com/chaincodec/chaincodec/pkg/value"
)

// EventDecoder implements decode.Decoder for Cosmos ABCI events.
type EventDecoder struct{}

// Fingerprint computes sha256("event:"+type+"/"+action) truncated to 16
// bytes, reading type/action from topics[0]/topics[1].
func (EventDecoder) Fingerprint(raw value.RawEvent) value.EventFingerprint {
	if len(raw.Topics) < 2 {
		return value.ZeroFingerprint
	}
	return value.CosmosFingerprint(string(raw.Topics[0]), string(raw.Topics[1]))
}

// DecodeEvent parses raw.Data as an ABCI attribute list and converts
// each schema field from its matching attribute. A missing attribute
// never fails the event: it becomes Null plus a decode_errors entry,
// same as an unparseable numeric field.
func (EventDecoder) DecodeEvent(raw value.RawEvent, s schema.Schema) (value.DecodedEvent, error) {
	fp := EventDecoder{}.Fingerprint(raw)
	if fp != s.Fingerprint {
		return value.DecodedEvent{}, decode.ErrFingerprintMismatch
	}

	attrs, err := parseAttributes(raw.Data)
	if err != nil {
		return value.DecodedEvent{}, err
	}

	fields := value.NewOrderedFields(len(s.Fields))
	decodeErrors := make(map[string]string)
	for _, f := range s.Fields {
		attrVal, ok := attrs[f.Name]
		if !ok {
			fields.Set(f.Name, value.Null())
			decodeErrors[f.Name] = fmt.Sprintf("missing attribute %q", f.Name)
			continue
		}
		v, err := convertAttribute(attrVal, f.Type)
		if err != nil {
			fields.Set(f.Name, value.Null())
			decodeErrors[f.Name] = err.Error()
			continue
		}
		fields.Set(f.Name, v)
	}

	return value.DecodedEvent{
		SchemaName:     s.Name,
		SchemaVersion:  s.Version,
		Chain:          resolveSlug(s),
		TxHash:         raw.TxHash,
		BlockNumber:    raw.BlockNumber,
		BlockTimestamp: raw.BlockTimestamp,
		LogIndex:       raw.LogIndex,
		Address:        raw.Address,
		Fields:         fields,
		Fingerprint:    fp,
		DecodeErrors:   decodeErrors,
	}, nil
}

func resolveSlug(s schema.Schema) string {
	if len(s.Chains) > 0 {
		return s.Chains[0]
	}
	return ""
}
