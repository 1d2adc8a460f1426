package schema

import "github.com/hamba/avro/v2"

const SessionEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "web_larek",
	"name": "session_event",
	"fields" : [
		{"name": "name", "type": "string"},
		{"name": "at", "type": "long"},
		{"name": "payload", "type": "bytes"}
	]
}`

// A SessionEventV1 is the wire form of one captured bus event.
// At is unix milliseconds, Payload is the JSON-encoded event payload.
type SessionEventV1 struct {
	Name    string `avro:"name"`
	At      int64  `avro:"at"`
	Payload []byte `avro:"payload"`
}

func SessionEventV1Avro() avro.Schema {
	return avro.MustParse(SessionEventSchemaTextV1)
}
