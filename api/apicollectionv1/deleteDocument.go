package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func deleteDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")
	documentId := box.GetUrlParameter(ctx, "documentId")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	err = col.Erase(r.Context(), documentId)
	if err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
