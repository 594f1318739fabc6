package frame

// decoders is the dispatch table Design Notes §9 calls for in place of
// the reference implementation's reflection-based field walk: one
// zero-value factory per MessageNumber, each producing a Payload whose
// Unmarshal knows its own fixed schema.
var decoders = map[MessageNumber]func() Payload{
	MsgRequestImage:              func() Payload { return &RequestImage{} },
	MsgImageData:                 func() Payload { return &ImageData{} },
	MsgImagePacket:               func() Payload { return &ImagePacket{} },
	MsgImageNotInDatabase:        func() Payload { return &ImageNotInDatabase{} },
	MsgObjectUpdate:              func() Payload { return &ObjectUpdate{} },
	MsgObjectUpdateCompressed:    func() Payload { return &ObjectUpdateCompressed{} },
	MsgImprovedTerseObjectUpdate: func() Payload { return &ImprovedTerseObjectUpdate{} },
	MsgKillObject:                func() Payload { return &KillObject{} },
}

var messageNames = map[MessageNumber]string{
	MsgRequestImage:              "RequestImage",
	MsgImageData:                 "ImageData",
	MsgImagePacket:               "ImagePacket",
	MsgImageNotInDatabase:        "ImageNotInDatabase",
	MsgObjectUpdate:              "ObjectUpdate",
	MsgObjectUpdateCompressed:    "ObjectUpdateCompressed",
	MsgImprovedTerseObjectUpdate: "ImprovedTerseObjectUpdate",
	MsgKillObject:                "KillObject",
}
