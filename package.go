package modhost

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	manifestEntry = "module.json"
	tabulaEntry   = "tabula.json"
)

// packageExtensions are the archive suffixes the discovery scan accepts.
var packageExtensions = []string{".modpkg", ".zip"}

// ModulePackage is a handle to one module archive on disk. It exposes the
// manifest and the optional tabula descriptor; the module's code itself is
// not read from the archive but resolved through the LoadSpace.
type ModulePackage struct {
	path   string
	reader *zip.ReadCloser
}

// OpenModulePackage opens the archive at path.
func OpenModulePackage(path string) (*ModulePackage, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPackageUnreadable, path, err)
	}
	return &ModulePackage{path: path, reader: reader}, nil
}

// IsModulePackage reports whether the file name carries a recognized
// package extension.
func IsModulePackage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range packageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Path returns the archive location on disk.
func (p *ModulePackage) Path() string { return p.path }

// BaseName returns the archive file name without its extension.
func (p *ModulePackage) BaseName() string {
	base := filepath.Base(p.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Manifest returns the module.json bytes. A package without the entry
// returns ErrDescriptorMissing; the discovery scan excludes such packages
// without failing the overall pass.
func (p *ModulePackage) Manifest() ([]byte, error) {
	data, err := p.entry(manifestEntry)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDescriptorMissing, p.path)
	}
	return data, nil
}

// TabulaDescriptor returns the tabula.json bytes and whether the entry
// exists.
func (p *ModulePackage) TabulaDescriptor() ([]byte, bool) {
	data, err := p.entry(tabulaEntry)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (p *ModulePackage) entry(name string) ([]byte, error) {
	for _, f := range p.reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in %s: %w", name, p.path, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read %s in %s: %w", name, p.path, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("no %s entry in %s", name, p.path)
}

// Close releases the underlying archive reader.
func (p *ModulePackage) Close() error {
	return p.reader.Close()
}
