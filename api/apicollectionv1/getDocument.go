package apicollectionv1

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/fulldump/box"

	"github.com/mjunaidi/kagodb/collection"
)

func getDocument(ctx context.Context, w http.ResponseWriter, r *http.Request) (collection.Item, error) {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")
	documentId := strings.TrimSpace(box.GetUrlParameter(ctx, "documentId"))

	if documentId == "" {
		w.WriteHeader(http.StatusBadRequest)
		return nil, fmt.Errorf("document id is required")
	}

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	return col.Read(r.Context(), documentId)
}
