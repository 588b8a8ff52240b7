package service

import (
	"testing"

	. "github.com/fulldump/biff"

	"github.com/mjunaidi/kagodb/database"
)

func newTestService() *Service {
	db := database.NewDatabase(&database.Config{Backend: database.BackendMemory})
	db.Load()
	return NewService(db)
}

func TestService_CreateAndGet(t *testing.T) {

	s := newTestService()

	col, err := s.CreateCollection("users")
	AssertNil(err)
	AssertNotNil(col)

	same, err := s.GetCollection("users")
	AssertNil(err)
	AssertEqual(same, col)
}

func TestService_CreateTwice(t *testing.T) {

	s := newTestService()

	s.CreateCollection("users")
	_, err := s.CreateCollection("users")
	AssertEqual(err, ErrorCollectionAlreadyExists)
}

func TestService_GetMissing(t *testing.T) {

	s := newTestService()

	_, err := s.GetCollection("nope")
	AssertEqual(err, ErrorCollectionNotFound)
}

func TestService_Delete(t *testing.T) {

	s := newTestService()

	s.CreateCollection("users")
	AssertNil(s.DeleteCollection("users"))
	AssertEqual(s.DeleteCollection("users"), ErrorCollectionNotFound)

	AssertEqual(len(s.ListCollections()), 0)
}
