package apicollectionv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"
)

type countRequest struct {
	Filter map[string]interface{} `json:"filter"`
}

type countResponse struct {
	Count int `json:"count"`
}

// count reports how many documents match the filter. With no filter the
// cursor counts by key listing and never reads a document.
func count(ctx context.Context, w http.ResponseWriter, r *http.Request) (*countResponse, error) {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	params := &countRequest{}
	if len(requestBody) > 0 {
		err = json.Unmarshal(requestBody, params)
		if err != nil {
			return nil, err
		}
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return nil, err
	}

	n, err := col.Find(params.Filter, nil).Count(r.Context())
	if err != nil {
		return nil, err
	}

	return &countResponse{Count: n}, nil
}
