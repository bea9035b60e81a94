package imagemeta

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"os"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// collectPNGText reads tEXt, zTXt and iTXt chunks from a PNG stream into
// fields, keyed by chunk keyword. AI image generators store their prompt
// and parameters this way. Malformed chunks are skipped; errors are
// swallowed because text chunks are optional metadata.
func collectPNGText(r *os.File, fields map[string]string) {
	if _, err := r.Seek(0, 0); err != nil {
		return
	}

	sig := make([]byte, len(pngSignature))
	if _, err := io.ReadFull(r, sig); err != nil || !bytes.Equal(sig, pngSignature) {
		return
	}

	var header [8]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return
		}

		length := binary.BigEndian.Uint32(header[:4])
		chunkType := string(header[4:8])

		if chunkType == "IEND" {
			return
		}

		// Text chunks are small; anything else is skipped without reading.
		switch chunkType {
		case "tEXt", "zTXt", "iTXt":
			data := make([]byte, length)
			if _, err := io.ReadFull(r, data); err != nil {
				return
			}
			if key, value, ok := decodeTextChunk(chunkType, data); ok {
				fields[key] = value
			}
		default:
			if _, err := r.Seek(int64(length), io.SeekCurrent); err != nil {
				return
			}
		}

		// Skip the CRC.
		if _, err := r.Seek(4, io.SeekCurrent); err != nil {
			return
		}
	}
}

func decodeTextChunk(chunkType string, data []byte) (key, value string, ok bool) {
	keyEnd := bytes.IndexByte(data, 0)
	if keyEnd <= 0 {
		return "", "", false
	}
	key = string(data[:keyEnd])
	rest := data[keyEnd+1:]

	switch chunkType {
	case "tEXt":
		return key, string(rest), true

	case "zTXt":
		// One compression method byte, then a zlib stream.
		if len(rest) < 1 || rest[0] != 0 {
			return "", "", false
		}
		text, err := inflate(rest[1:])
		if err != nil {
			return "", "", false
		}
		return key, text, true

	case "iTXt":
		// compression flag, compression method, language tag \0,
		// translated keyword \0, text.
		if len(rest) < 2 {
			return "", "", false
		}
		compressed := rest[0] == 1
		rest = rest[2:]

		langEnd := bytes.IndexByte(rest, 0)
		if langEnd < 0 {
			return "", "", false
		}
		rest = rest[langEnd+1:]

		transEnd := bytes.IndexByte(rest, 0)
		if transEnd < 0 {
			return "", "", false
		}
		rest = rest[transEnd+1:]

		if !compressed {
			return key, string(rest), true
		}
		text, err := inflate(rest)
		if err != nil {
			return "", "", false
		}
		return key, text, true
	}

	return "", "", false
}

func inflate(data []byte) (string, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
