package apicollectionv1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

// keys exposes the backend's full id listing, mostly for diagnostics and
// for the remote storage client.
func keys(ctx context.Context, w http.ResponseWriter, r *http.Request) ([]string, error) {

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")

	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	return col.Keys(r.Context())
}
