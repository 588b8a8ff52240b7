// Package file implements a storage driver over a directory of YAML
// documents, one file per id. The id is the file name (plus the .yaml
// extension), so anything that survives a directory listing survives a
// restart.
package file

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mjunaidi/kagodb/storage"
)

const extension = ".yaml"

type File struct {
	dir string
}

func Open(dir string) (*File, error) {

	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &File{dir: dir}, nil
}

func (f *File) Index(ctx context.Context) ([]string, error) {

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list data dir: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, extension) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, extension))
	}

	return ids, nil
}

func (f *File) Read(ctx context.Context, id string) (storage.Item, error) {

	filename, err := f.filename(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("read '%s': %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	item := storage.Item{}
	err = yaml.Unmarshal(data, &item)
	if err != nil {
		return nil, fmt.Errorf("decode yaml '%s': %w", id, err)
	}

	return item, nil
}

func (f *File) Write(ctx context.Context, id string, item storage.Item) error {

	filename, err := f.filename(id)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode yaml '%s': %w", id, err)
	}

	err = os.WriteFile(filename, data, 0666)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

func (f *File) Erase(ctx context.Context, id string) error {

	filename, err := f.filename(id)
	if err != nil {
		return err
	}

	err = os.Remove(filename)
	if os.IsNotExist(err) {
		return fmt.Errorf("erase '%s': %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("remove file: %w", err)
	}

	return nil
}

func (f *File) Exist(ctx context.Context, id string) (bool, error) {

	filename, err := f.filename(id)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(filename)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat file: %w", err)
	}

	return true, nil
}

// filename rejects ids that would escape the data dir.
func (f *File) filename(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\") || id == "." || id == ".." {
		return "", fmt.Errorf("invalid id '%s'", id)
	}
	return path.Join(f.dir, id+extension), nil
}
