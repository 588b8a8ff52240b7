// Package database is a registry of named collections over a configured
// backend. The file backend maps each collection to a subdirectory of the
// data dir; the memory backend keeps everything in process.
package database

import (
	"fmt"
	"log"
	"os"
	"path"
	"time"

	"github.com/mjunaidi/kagodb/collection"
	"github.com/mjunaidi/kagodb/storage"
	"github.com/mjunaidi/kagodb/storage/file"
	"github.com/mjunaidi/kagodb/storage/memory"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

const (
	BackendMemory = "memory"
	BackendFile   = "file"
)

type Config struct {
	Dir     string
	Backend string
}

type Database struct {
	Config      *Config
	status      string
	Collections map[string]*collection.Collection
	exit        chan struct{}
}

func NewDatabase(config *Config) *Database {
	if config.Backend == "" {
		config.Backend = BackendMemory
	}
	return &Database{
		Config:      config,
		status:      StatusOpening,
		Collections: map[string]*collection.Collection{},
		exit:        make(chan struct{}),
	}
}

func (db *Database) GetStatus() string {
	return db.status
}

func (db *Database) openDriver(name string) (storage.Driver, error) {
	switch db.Config.Backend {
	case BackendMemory:
		return memory.New(), nil
	case BackendFile:
		return file.Open(path.Join(db.Config.Dir, name))
	}
	return nil, fmt.Errorf("unknown backend '%s'", db.Config.Backend)
}

func (db *Database) CreateCollection(name string) (*collection.Collection, error) {

	if _, exists := db.Collections[name]; exists {
		return nil, fmt.Errorf("collection '%s' already exists", name)
	}

	driver, err := db.openDriver(name)
	if err != nil {
		return nil, err
	}

	col := collection.New(driver)
	db.Collections[name] = col

	return col, nil
}

func (db *Database) DropCollection(name string) error {

	_, exists := db.Collections[name]
	if !exists {
		return fmt.Errorf("collection '%s' not found", name)
	}

	if db.Config.Backend == BackendFile {
		err := os.RemoveAll(path.Join(db.Config.Dir, name))
		if err != nil {
			return fmt.Errorf("remove collection dir: %w", err)
		}
	}

	delete(db.Collections, name)

	return nil
}

// Load discovers existing collections. Only the file backend has anything
// to discover; memory always starts empty.
func (db *Database) Load() error {

	if db.Config.Backend != BackendFile {
		db.status = StatusOperating
		return nil
	}

	log.Printf("Loading database %s...", db.Config.Dir)
	dir := db.Config.Dir
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		db.status = StatusClosing
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		db.status = StatusClosing
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()

		t0 := time.Now()
		driver, err := file.Open(path.Join(dir, name))
		if err != nil {
			db.status = StatusClosing
			return fmt.Errorf("open collection '%s': %w", name, err)
		}
		db.Collections[name] = collection.New(driver)
		log.Println(name, time.Since(t0))
	}

	db.status = StatusOperating

	return nil
}

func (db *Database) Start() error {

	go db.Load()

	<-db.exit

	return nil
}

func (db *Database) Stop() error {

	defer close(db.exit)

	db.status = StatusClosing

	return nil
}
