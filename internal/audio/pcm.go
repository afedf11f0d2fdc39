package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// EncodeFloat32LE converts samples to little-endian float32 bytes, the wire
// format of both the oto backend and the synthesis subprocess.
func EncodeFloat32LE(samples []float32) []byte {
	buf := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(s))
	}
	return buf
}

// DecodeFloat32LE converts little-endian float32 bytes back to samples.
func DecodeFloat32LE(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("pcm data length %d is not a multiple of 4", len(data))
	}
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples, nil
}
