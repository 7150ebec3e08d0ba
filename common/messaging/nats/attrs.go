package nats

import (
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/mailvault-systems/mailvault-stack/common/messaging"
)

// AttributesHeader carries the message's typed attribute set, JSON-encoded,
// alongside the opaque body. A single header avoids the MIME key
// canonicalization NATS applies to per-attribute header names.
const AttributesHeader = "Mv-Attributes"

type wireAttribute struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

func encodeAttributes(attrs messaging.Attributes) (nats.Header, error) {
	if len(attrs) == 0 {
		return nil, nil
	}

	wire := make(map[string]wireAttribute, len(attrs))
	for name, attr := range attrs {
		wire[name] = wireAttribute{Value: attr.Value, Type: attr.Type}
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}

	h := nats.Header{}
	h.Set(AttributesHeader, string(data))
	return h, nil
}

// decodeAttributes parses the attribute header. A missing or malformed
// header yields nil attributes; the consumer loop treats that as a
// per-message failure and leaves the message queued.
func decodeAttributes(h nats.Header) messaging.Attributes {
	if h == nil {
		return nil
	}
	raw := h.Get(AttributesHeader)
	if raw == "" {
		return nil
	}

	var wire map[string]wireAttribute
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil
	}

	attrs := make(messaging.Attributes, len(wire))
	for name, attr := range wire {
		attrs[name] = messaging.Attribute{Value: attr.Value, Type: attr.Type}
	}
	return attrs
}
