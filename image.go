package main

import (
	"bytes"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Compiled images hold an already decoded Program, so that large programs
// need not be re-tokenized on every run. The magic header starts with a NUL
// byte, which program source has no reason to contain.
var imageMagic = []byte("\x00wsvm\x01")

const imageVersion = 1

type programImage struct {
	Version int           `cbor:"1,keyasint"`
	Code    []Instruction `cbor:"2,keyasint"`
}

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	imageEncMode = em
}

// IsImage returns true if data starts with the compiled image header.
func IsImage(data []byte) bool { return bytes.HasPrefix(data, imageMagic) }

// EncodeImage serializes prog as a compiled image.
func EncodeImage(prog Program) ([]byte, error) {
	body, err := imageEncMode.Marshal(programImage{
		Version: imageVersion,
		Code:    prog,
	})
	if err != nil {
		return nil, fmt.Errorf("image encode failed: %w", err)
	}
	return append(append([]byte(nil), imageMagic...), body...), nil
}

// DecodeImage deserializes a compiled image, checking every instruction as
// strictly as Decode would.
func DecodeImage(data []byte) (Program, error) {
	if !IsImage(data) {
		return nil, fmt.Errorf("%w: missing image header", ErrMalformedInstruction)
	}
	var img programImage
	if err := cbor.Unmarshal(data[len(imageMagic):], &img); err != nil {
		return nil, fmt.Errorf("%w: image decode failed: %v", ErrMalformedInstruction, err)
	}
	if img.Version != imageVersion {
		return nil, fmt.Errorf("%w: unsupported image version %v", ErrMalformedInstruction, img.Version)
	}
	for i, inst := range img.Code {
		if err := checkImageInstruction(inst); err != nil {
			return nil, fmt.Errorf("%w: image instruction #%v: %v", ErrMalformedInstruction, i, err)
		}
	}
	return Program(img.Code), nil
}

func checkImageInstruction(inst Instruction) error {
	if !inst.Op.valid() {
		return fmt.Errorf("invalid opcode %v", uint8(inst.Op))
	}
	if inst.Arg != 0 && !inst.Op.HasNumber() {
		return fmt.Errorf("%v takes no number", inst.Op)
	}
	if inst.Label != "" && !inst.Op.HasLabel() {
		return fmt.Errorf("%v takes no label", inst.Op)
	}
	for i := 0; i < len(inst.Label); i++ {
		if c := inst.Label[i]; c != '0' && c != '1' {
			return fmt.Errorf("invalid label %q", inst.Label)
		}
	}
	return nil
}
