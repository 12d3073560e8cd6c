package lm

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/gtkrshnaaa/cevia/vocab"
)

// The on-disk model is four little-endian files sharing a prefix:
//
//	<prefix>.vocab  u32 size, then per token: u16 len + raw bytes
//	<prefix>.uni    u64 totalTokens, u32 count, then (u32 id, u32 count)*
//	<prefix>.bi     u32 count, then (u32 prev, u32 next, u32 count)*
//	<prefix>.tri    u32 count, then (u32 id0, u32 id1, u32 id2, u32 count)*
//
// There are no magic bytes, versions or checksums; the caller guarantees
// the files under one prefix belong together. Orders above 3 stay in
// memory only.
const (
	vocabExt = ".vocab"
	uniExt   = ".uni"
	biExt    = ".bi"
	triExt   = ".tri"
)

// Save writes the model tables under prefix.
func (m *Model) Save(prefix string) error {
	if err := writeFile(prefix+vocabExt, m.vocab.Encode); err != nil {
		return err
	}
	if err := writeFile(prefix+uniExt, m.encodeUnigrams); err != nil {
		return err
	}
	if err := writeFile(prefix+biExt, m.encodeBigrams); err != nil {
		return err
	}
	return writeFile(prefix+triExt, m.encodeTrigrams)
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}

func (m *Model) encodeUnigrams(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, m.totalTokens); err != nil {
		return err
	}

	unigrams := m.ngrams.Root().Children()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(unigrams))); err != nil {
		return err
	}
	for _, u := range unigrams {
		if err := binary.Write(w, binary.LittleEndian, [2]uint32{u.TokenID(), u.Count()}); err != nil {
			return err
		}
	}

	return nil
}

func (m *Model) encodeBigrams(w io.Writer) error {
	firsts := m.ngrams.Root().Children()

	var count uint32
	for _, first := range firsts {
		count += uint32(len(first.Children()))
	}
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}

	for _, first := range firsts {
		for _, second := range first.Children() {
			if err := binary.Write(w, binary.LittleEndian, [3]uint32{first.TokenID(), second.TokenID(), second.Count()}); err != nil {
				return err
			}
		}
	}

	return nil
}

func (m *Model) encodeTrigrams(w io.Writer) error {
	firsts := m.ngrams.Root().Children()

	var count uint32
	for _, first := range firsts {
		for _, second := range first.Children() {
			count += uint32(len(second.Children()))
		}
	}
	if err := binary.Write(w, binary.LittleEndian, count); err != nil {
		return err
	}

	for _, first := range firsts {
		for _, second := range first.Children() {
			for _, third := range second.Children() {
				if err := binary.Write(w, binary.LittleEndian, [4]uint32{first.TokenID(), second.TokenID(), third.TokenID(), third.Count()}); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// Load reads the model tables under prefix into m. It expects a fresh
// model: loaded counts add to whatever the trie already holds. The vocab
// file is required; missing n-gram files are treated as empty tables. A
// short read stops loading and surfaces the error.
func (m *Model) Load(prefix string) error {
	f, err := os.Open(prefix + vocabExt)
	if err != nil {
		return fmt.Errorf("open %s: %w", prefix+vocabExt, err)
	}
	v, err := vocab.Decode(bufio.NewReader(f))
	f.Close()
	if err != nil {
		return fmt.Errorf("load %s: %w", prefix+vocabExt, err)
	}
	m.vocab = v

	if err := m.readTable(prefix+uniExt, m.decodeUnigrams); err != nil {
		return err
	}
	if err := m.readTable(prefix+biExt, m.decodeBigrams); err != nil {
		return err
	}
	return m.readTable(prefix+triExt, m.decodeTrigrams)
}

func (m *Model) readTable(path string, decode func(io.Reader) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := decode(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (m *Model) decodeUnigrams(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &m.totalTokens); err != nil {
		return err
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		var entry [2]uint32
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return err
		}
		m.ngrams.AddCount(entry[:1], entry[1])
	}

	return nil
}

func (m *Model) decodeBigrams(r io.Reader) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		var entry [3]uint32
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return err
		}
		m.ngrams.AddCount(entry[:2], entry[2])
	}

	return nil
}

func (m *Model) decodeTrigrams(r io.Reader) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	for i := uint32(0); i < count; i++ {
		var entry [4]uint32
		if err := binary.Read(r, binary.LittleEndian, &entry); err != nil {
			return err
		}
		m.ngrams.AddCount(entry[:3], entry[3])
	}

	return nil
}
