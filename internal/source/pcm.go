// SPDX-License-Identifier: MIT
package source

import (
	"encoding/binary"

	"github.com/go-audio/audio"
)

// intToFloat normalizes integer PCM to [-1, 1). offset is subtracted first
// and is 128 for unsigned 8-bit data.
func intToFloat(data []int, bitDepth, offset int) []float32 {
	scale := float32(int64(1) << (bitDepth - 1))
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v-offset) / scale
	}
	return out
}

// intBufferSource converts a decoded go-audio buffer into a MemSource.
func intBufferSource(buf *audio.IntBuffer, bitDepth, offset int) (*MemSource, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 || buf.Format.SampleRate <= 0 {
		return nil, ErrInvalidFormat
	}
	if bitDepth <= 0 || bitDepth > 32 {
		return nil, ErrInvalidFormat
	}
	samples := intToFloat(buf.Data, bitDepth, offset)
	return NewMemSource(samples, buf.Format.NumChannels, buf.Format.SampleRate), nil
}

// int16LEToFloat converts little-endian 16-bit PCM bytes.
func int16LEToFloat(data []byte) []float32 {
	out := make([]float32, len(data)/2)
	for i := range out {
		out[i] = float32(int16(binary.LittleEndian.Uint16(data[2*i:]))) / 32768.0
	}
	return out
}
