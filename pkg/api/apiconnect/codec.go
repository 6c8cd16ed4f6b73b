// Package apiconnect wires the splitledger services to Connect. Messages are
// plain Go structs from package api and travel as JSON under the "json"
// codec name, so Connect, gRPC-Web and gRPC clients that speak JSON all work.
package apiconnect

import (
	"encoding/json"
	"strings"

	"connectrpc.com/connect"
)

// codecName matches the "application/json" and "application/connect+json"
// content types.
const codecName = "json"

// Codec marshals api messages as JSON.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return codecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

func procedure(service, method string) string {
	return "/" + service + "/" + method
}

func trimBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}
