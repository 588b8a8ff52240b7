package service

import (
	"errors"

	"github.com/mjunaidi/kagodb/collection"
)

var ErrorCollectionNotFound = errors.New("collection not found")
var ErrorCollectionAlreadyExists = errors.New("collection already exists")

type Servicer interface {
	CreateCollection(name string) (*collection.Collection, error)
	GetCollection(name string) (*collection.Collection, error)
	ListCollections() map[string]*collection.Collection
	DeleteCollection(name string) error
}
