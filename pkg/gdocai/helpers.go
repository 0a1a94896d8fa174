package gdocai

import (
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// ToJSON renders a response message as indented JSON for debug dumps.
func ToJSON(msg proto.Message) (string, error) {
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
