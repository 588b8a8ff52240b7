package apicollectionv1

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fulldump/box"
	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

type findRequest struct {
	Filter     map[string]interface{} `json:"filter"`
	Projection map[string]interface{} `json:"projection"`
	Sort       []interface{}          `json:"sort"`
	Skip       int                    `json:"skip"`
	Limit      int                    `json:"limit"`
}

// find builds a cursor from the request body and streams the result, one
// JSON document per line. Pipeline order is fixed by construction: filter,
// projection, then sort, skip and limit in that order.
func find(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	requestBody, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}

	params := &findRequest{
		Limit: -1, // no limit unless the caller asks for one
	}
	if len(requestBody) > 0 {
		err = json.Unmarshal(requestBody, params)
		if err != nil {
			return err
		}
	}

	s := GetServicer(ctx)
	collectionName := box.GetUrlParameter(ctx, "collectionName")
	col, err := s.GetCollection(collectionName)
	if err != nil {
		return err
	}

	cursor := col.Find(params.Filter, params.Projection)
	if len(params.Sort) > 0 {
		cursor.Sort(params.Sort)
	}
	if params.Skip > 0 {
		cursor.Offset(params.Skip)
	}
	if params.Limit >= 0 {
		cursor.Limit(params.Limit)
	}

	jsonWriter := jsontext.NewEncoder(w)

	return cursor.Each(r.Context(), func(item map[string]interface{}) error {
		return json2.MarshalEncode(jsonWriter, item)
	})
}
