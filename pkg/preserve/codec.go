package preserve

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Codec turns an entity into a save blob and back
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// JSONCodec stores saves as indented JSON
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (JSONCodec) Name() string { return "json" }

// CBORCodec stores saves as CBOR. Struct fields use their json tags.
type CBORCodec struct{}

// Times keep nanoseconds so a round trip is exact
var cborEnc = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func (CBORCodec) Marshal(v any) ([]byte, error) { return cborEnc.Marshal(v) }

func (CBORCodec) Unmarshal(data []byte, v any) error { return cbor.Unmarshal(data, v) }

func (CBORCodec) Name() string { return "cbor" }

// CodecByName maps a configured codec name to its implementation
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "cbor":
		return CBORCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown save codec %q", name)
	}
}
