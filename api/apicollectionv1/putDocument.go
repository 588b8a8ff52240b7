package apicollectionv1

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fulldump/box"

	"github.com/mjunaidi/kagodb/collection"
	"github.com/mjunaidi/kagodb/service"
)

// putDocument upserts the document at its id. The enclosing collection is
// created on first write, like insert does.
func putDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) (collection.Item, error) {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")
	documentId := box.GetUrlParameter(ctx, "documentId")

	item := collection.Item{}
	err := json.NewDecoder(r.Body).Decode(&item)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, err
	}

	col, err := s.GetCollection(collectionName)
	if err == service.ErrorCollectionNotFound {
		col, err = s.CreateCollection(collectionName)
	}
	if err != nil {
		return nil, err
	}

	exist, err := col.Exist(r.Context(), documentId)
	if err != nil {
		return nil, err
	}

	err = col.Write(r.Context(), documentId, item)
	if err != nil {
		return nil, err
	}

	if !exist {
		w.WriteHeader(http.StatusCreated)
	}

	return item, nil
}
