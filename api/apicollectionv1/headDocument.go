package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

// headDocument answers exist checks with a bare status, no body.
func headDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")
	documentId := box.GetUrlParameter(ctx, "documentId")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}

	exist, err := col.Exist(r.Context(), documentId)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return nil
	}

	if !exist {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
