package overlay

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// file is the on-disk layout:
//
//	[[annotation]]
//	kind = "box"
//	x = 40
//	y = 60
//	w = 200
//	h = 80
type file struct {
	Annotations []Annotation `toml:"annotation"`
}

// Parse reads a layer from TOML.
func Parse(r io.Reader) (*Layer, error) {
	var f file
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse overlay: %w", err)
	}
	return NewLayer(f.Annotations...)
}

// Load reads a layer from a TOML file.
func Load(path string) (*Layer, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open overlay: %w", err)
	}
	defer fh.Close()
	return Parse(fh)
}

// Marshal writes a layer as TOML.
func (l *Layer) Marshal() ([]byte, error) {
	if l == nil {
		l = &Layer{}
	}
	return toml.Marshal(file{Annotations: l.Annotations})
}
