package templates

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const DefaultImport = "github.com/delaneyj/proxyparty/reactivity"

// File is a shape file: the Go types of one package that get typed views.
type File struct {
	Source  string `yaml:"-"`
	Package string `yaml:"package"`
	Import  string `yaml:"import"`
	Types   []Type `yaml:"types"`
}

type Type struct {
	Name   string  `yaml:"name"`
	Fields []Field `yaml:"fields"`
}

// Field is one exported field. Exactly one of Type, View and List is set:
// Type for plain values, View for a nested struct declared in the same file,
// List for a slice of such structs.
type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	View string `yaml:"view"`
	List string `yaml:"list"`
}

type FieldKind int

const (
	FieldValue FieldKind = iota
	FieldView
	FieldList
)

func (f Field) Kind() FieldKind {
	switch {
	case f.View != "":
		return FieldView
	case f.List != "":
		return FieldList
	default:
		return FieldValue
	}
}

var (
	ErrNoPackage    = errors.New("shape file has no package")
	ErrInvalidShape = errors.New("invalid shape")
)

// Parse reads a shape file. source names it in the generated header.
func Parse(source string, data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", source, err)
	}
	f.Source = source
	if f.Package == "" {
		return nil, ErrNoPackage
	}
	if f.Import == "" {
		f.Import = DefaultImport
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return f, nil
}

func (f *File) validate() error {
	declared := map[string]bool{}
	for _, t := range f.Types {
		if t.Name == "" {
			return fmt.Errorf("%w: type without a name", ErrInvalidShape)
		}
		if declared[t.Name] {
			return fmt.Errorf("%w: type %s declared twice", ErrInvalidShape, t.Name)
		}
		declared[t.Name] = true
	}

	for _, t := range f.Types {
		seen := map[string]bool{}
		for _, fd := range t.Fields {
			if fd.Name == "" {
				return fmt.Errorf("%w: %s has a field without a name", ErrInvalidShape, t.Name)
			}
			if seen[fd.Name] {
				return fmt.Errorf("%w: %s.%s declared twice", ErrInvalidShape, t.Name, fd.Name)
			}
			seen[fd.Name] = true

			set := 0
			for _, s := range []string{fd.Type, fd.View, fd.List} {
				if s != "" {
					set++
				}
			}
			if set != 1 {
				return fmt.Errorf("%w: %s.%s needs exactly one of type, view or list", ErrInvalidShape, t.Name, fd.Name)
			}

			if ref := fd.View + fd.List; ref != "" && !declared[ref] {
				return fmt.Errorf("%w: %s.%s refers to undeclared type %s", ErrInvalidShape, t.Name, fd.Name, ref)
			}
		}
	}
	return nil
}
