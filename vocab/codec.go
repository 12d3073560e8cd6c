package vocab

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Encode writes the vocabulary in its on-disk form: a little-endian u32
// token count followed by each token as a u16 length and raw bytes.
func (v *Vocabulary) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(v.tokens))); err != nil {
		return err
	}

	for _, tok := range v.tokens {
		if err := binary.Write(w, binary.LittleEndian, uint16(len(tok))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, tok); err != nil {
			return err
		}
	}

	return nil
}

// Decode reads a vocabulary in the on-disk form produced by Encode. The
// reserved tokens come back at ids 0..2 because they were written first.
func Decode(r io.Reader) (*Vocabulary, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("read vocab size: %w", err)
	}

	v := &Vocabulary{
		ids:    make(map[string]uint32, size),
		tokens: make([]string, 0, size),
	}

	buf := make([]byte, 1<<16)
	for i := uint32(0); i < size; i++ {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("read token %d length: %w", i, err)
		}
		if _, err := io.ReadFull(r, buf[:n]); err != nil {
			return nil, fmt.Errorf("read token %d: %w", i, err)
		}

		tok := string(buf[:n])
		v.ids[tok] = uint32(len(v.tokens))
		v.tokens = append(v.tokens, tok)
	}

	return v, nil
}
