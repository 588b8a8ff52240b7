package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/mjunaidi/kagodb/utils"
)

func listCollections(ctx context.Context, r *http.Request) ([]*CollectionResponse, error) {

	s := GetServicer(ctx)

	collections := s.ListCollections()

	result := []*CollectionResponse{}
	for _, name := range utils.GetKeys(collections) {
		total, err := collections[name].Count(r.Context())
		if err != nil {
			return nil, err
		}
		result = append(result, &CollectionResponse{
			Name:  name,
			Total: total,
		})
	}

	return result, nil
}
