package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func getCollection(ctx context.Context, r *http.Request) (*CollectionResponse, error) {

	s := GetServicer(ctx)

	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	total, err := col.Count(r.Context())
	if err != nil {
		return nil, err
	}

	return &CollectionResponse{
		Name:  collectionName,
		Total: total,
	}, nil
}
