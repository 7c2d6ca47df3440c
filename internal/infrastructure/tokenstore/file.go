package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File guarda el token en un archivo con permisos 0600 (sesión de la CLI).
type File struct {
	path string
}

// NewFile crea el store sobre path; el directorio se crea al guardar.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path ruta del archivo.
func (f *File) Path() string { return f.path }

func (f *File) Load(context.Context) (string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("tokenstore: leer %s: %w", f.path, err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save escribe en un temporal y renombra, para no dejar un token a medias.
func (f *File) Save(_ context.Context, token string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("tokenstore: crear %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".token-*")
	if err != nil {
		return fmt.Errorf("tokenstore: temporal: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: permisos: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: escribir: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokenstore: cerrar: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("tokenstore: guardar %s: %w", f.path, err)
	}
	return nil
}

func (f *File) Clear(context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenstore: borrar %s: %w", f.path, err)
	}
	return nil
}
