// Command object-dump decodes a captured LLUDP frame file and prints the
// resulting object update(s) as JSON, one line per object update block.
package main

import (
	"encoding/binary"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/runZeroInc/lludp/pkg/frame"
	"github.com/runZeroInc/lludp/pkg/object"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if len(os.Args) < 2 {
		logrus.Fatalf("usage: object-dump <captured-frame-file>")
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		logrus.Fatalf("read %s: %v", os.Args[1], err)
	}
	if len(raw) < 4 {
		logrus.Fatalf("%s: too short to contain a frame header", os.Args[1])
	}

	f := frame.Frame{
		Number:  frame.MessageNumber(binary.BigEndian.Uint32(raw[:4])),
		Payload: raw[4:],
	}
	payload, err := frame.Decode(f)
	if err != nil {
		logrus.Fatalf("decode frame: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)

	switch p := payload.(type) {
	case *frame.ObjectUpdateCompressed:
		for i, block := range p.Blocks {
			snapshot, err := object.DecodeCompressedUpdate(block)
			if err != nil {
				logrus.WithError(err).Errorf("block %d: decode compressed update", i)
				continue
			}
			must(enc.Encode(snapshot))
		}
	case *frame.ImprovedTerseObjectUpdate:
		for i, block := range p.Blocks {
			update, err := object.DecodeTerseUpdate(block)
			if err != nil {
				logrus.WithError(err).Errorf("block %d: decode terse update", i)
				continue
			}
			must(enc.Encode(update))
		}
	case *frame.ObjectUpdate:
		for i, block := range p.Blocks {
			data, err := object.DecodeObjectData(block.Data)
			if err != nil {
				logrus.WithError(err).Errorf("block %d: decode object data", i)
				continue
			}
			must(enc.Encode(struct {
				LocalID uint32
				PCode   uint8
				Data    object.FullObjectData
			}{LocalID: block.LocalID, PCode: block.PCode, Data: data}))
		}
	default:
		must(enc.Encode(payload))
	}
}

func must(err error) {
	if err != nil {
		logrus.Fatalf("encode: %v", err)
	}
}
