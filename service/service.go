// Package service sits between the API and the database: name resolution
// plus create/delete bookkeeping for collections.
package service

import (
	"github.com/mjunaidi/kagodb/collection"
	"github.com/mjunaidi/kagodb/database"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

func (s *Service) CreateCollection(name string) (*collection.Collection, error) {

	if _, exist := s.db.Collections[name]; exist {
		return nil, ErrorCollectionAlreadyExists
	}

	return s.db.CreateCollection(name)
}

func (s *Service) GetCollection(name string) (*collection.Collection, error) {

	col, exist := s.db.Collections[name]
	if !exist {
		return nil, ErrorCollectionNotFound
	}

	return col, nil
}

func (s *Service) ListCollections() map[string]*collection.Collection {
	return s.db.Collections
}

func (s *Service) DeleteCollection(name string) error {

	if _, exist := s.db.Collections[name]; !exist {
		return ErrorCollectionNotFound
	}

	return s.db.DropCollection(name)
}
