package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Ensure Codec implements connect.Codec
var _ connect.Codec = Codec{}

// Codec encodes the plain Go message types of this package as JSON.
// It is registered under the name "json", so requests use the
// application/json content type of the Connect protocol.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string {
	return "json"
}

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal into %T: %w", msg, err)
	}
	return nil
}
