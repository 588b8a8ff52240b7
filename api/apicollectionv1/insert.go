package apicollectionv1

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/mjunaidi/kagodb/collection"
	"github.com/mjunaidi/kagodb/service"
)

// insert reads a stream of JSON documents from the request body and writes
// each one under a generated id, echoing `{"id": ...}` per document. The
// collection is created on first insert.
func insert(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err == service.ErrorCollectionNotFound {
		col, err = s.CreateCollection(collectionName)
	}
	if err != nil {
		return err
	}

	jsonReader := jsontext.NewDecoder(r.Body)
	jsonWriter := jsontext.NewEncoder(w)

	for i := 0; true; i++ {
		item := collection.Item{}
		err := json2.UnmarshalDecode(jsonReader, &item)
		if errors.Is(err, io.EOF) {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			if i == 0 {
				w.WriteHeader(http.StatusBadRequest)
			}
			return err
		}

		id, err := col.Insert(r.Context(), item)
		if err != nil {
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		err = json2.MarshalEncode(jsonWriter, map[string]interface{}{"id": id})
		if err != nil {
			return err
		}
	}

	return nil
}
