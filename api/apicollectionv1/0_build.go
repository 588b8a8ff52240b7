package apicollectionv1

import (
	"github.com/fulldump/box"

	"github.com/mjunaidi/kagodb/service"
)

func BuildV1Collection(v1 *box.R, s service.Servicer) *box.R {

	collections := v1.Resource("/collections").
		WithActions(
			box.Get(listCollections),
			box.Post(createCollection),
		)

	v1.Resource("/collections/{collectionName}").
		WithActions(
			box.Get(getCollection),
			box.ActionPost(insert),
			box.ActionPost(find),
			box.ActionPost(count),
			box.ActionPost(keys),
			box.ActionPost(dropCollection),
		)

	v1.Resource("/collections/{collectionName}/documents/{documentId}").
		WithActions(
			box.Get(getDocument),
			box.Put(putDocument),
			box.Delete(deleteDocument),
			box.Head(headDocument),
		)

	return collections
}
