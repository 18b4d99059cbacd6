package effect

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// MaxFileBytes bounds how much of a path-sourced stream or declared file
// is loaded into a descriptor.
const MaxFileBytes = 1 << 20

// Prepare returns the registration-time copy of a descriptor: an
// independent deep copy with path-sourced contents loaded and expected
// output streams whitespace-stripped per flags.
//
// The receiver is left untouched.
func (d *Descriptor) Prepare() (*Descriptor, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("descriptor has no name")
	}

	p := d.Clone()

	for i := range p.Streams {
		s := &p.Streams[i]
		if s.Path != "" && s.Data == nil {
			data, err := loadBounded(s.Path)
			if err != nil {
				return nil, fmt.Errorf("%s: stream %d: %w", p.Name, i, err)
			}
			s.Data = data
		}
	}

	for i := range p.Files {
		f := &p.Files[i]
		if f.Path == "" {
			break
		}
		if f.Data == nil {
			data, err := loadBounded(f.Path)
			if err != nil {
				return nil, fmt.Errorf("%s: file %s: %w", p.Name, f.Path, err)
			}
			f.Data = data
		}
	}

	// Expected output text is stripped at registration so authors can
	// indent heredoc-style literals freely. Stdin is input and is passed
	// through verbatim; binary streams are compared byte-for-byte.
	if p.Flags&SuppressStrip == 0 {
		for _, i := range []int{Stdout, Stderr} {
			if !p.Streams[i].Binary {
				p.Streams[i].Data = Strip(p.Streams[i].Data)
			}
		}
	}

	return p, nil
}

// Strip trims leading and trailing whitespace as defined by
// unicode.IsSpace. A nil slice stays nil so "no expectation" remains
// distinguishable from "expect empty".
func Strip(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := bytes.TrimSpace(b)
	if out == nil {
		// TrimSpace returns nil for all-space input; a present
		// expectation must stay present.
		out = []byte{}
	}
	return out
}

func loadBounded(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, MaxFileBytes))
}
