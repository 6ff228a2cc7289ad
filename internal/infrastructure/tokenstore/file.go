package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
)

// File keeps tokens in a YAML document, one section per namespace:
//
//	default:
//	  access_token: eyJ...
//	  refresh_token: eyJ...
//
// The file is re-read on every call so several processes can share it.
type File struct {
	path      string
	namespace string
	mu        sync.Mutex
}

var _ ports.TokenStore = (*File)(nil)

type document map[string]map[string]string

func NewFile(path, namespace string) *File {
	if namespace == "" {
		namespace = "default"
	}
	return &File{path: path, namespace: namespace}
}

// Path returns the backing file.
func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := doc[f.namespace][key]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return v, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if doc[f.namespace] == nil {
		doc[f.namespace] = make(map[string]string)
	}
	doc[f.namespace][key] = value
	return f.write(doc)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	ns, ok := doc[f.namespace]
	if !ok {
		return nil
	}
	if _, ok := ns[key]; !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(doc, f.namespace)
	}
	return f.write(doc)
}

// Ping checks that the directory holding the file is usable.
func (f *File) Ping(context.Context) error {
	dir := filepath.Dir(f.path)
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("tokenstore: %s is not a directory", dir)
	}
	return nil
}

func (f *File) read() (document, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tokenstore: read %s: %w", f.path, err)
	}
	doc := document{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("tokenstore: parse %s: %w", f.path, err)
	}
	return doc, nil
}

// write replaces the file atomically; tokens are readable by the owner only.
func (f *File) write(doc document) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("tokenstore: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("tokenstore: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("tokenstore: write %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokenstore: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}
