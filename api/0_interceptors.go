package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fulldump/box"

	"github.com/mjunaidi/kagodb/collection"
	"github.com/mjunaidi/kagodb/database"
	"github.com/mjunaidi/kagodb/service"
	"github.com/mjunaidi/kagodb/storage"
)

func RecoverFromPanic(next box.H) box.H {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				debug.PrintStack()
				box.SetError(ctx, fmt.Errorf("internal error"))
			}
		}()
		next(ctx)
	}
}

func AccessLog(l *log.Logger) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			r := box.GetRequest(ctx)
			now := time.Now()
			defer func() {
				l.Println(now.UTC().Format(time.RFC3339Nano), formatRemoteAddr(r), r.Method, r.URL.String(), time.Since(now))
			}()

			next(ctx)
		}
	}
}

func formatRemoteAddr(r *http.Request) string {
	xorigin := strings.TrimSpace(strings.Split(
		r.Header.Get("X-Forwarded-For"), ",")[0])
	if xorigin != "" {
		return xorigin
	}

	return r.RemoteAddr[0:strings.LastIndex(r.RemoteAddr, ":")]
}

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: opening"))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: closing"))
				return
			}
			next(ctx)
		}
	}
}

// PrettyErrorInterceptor maps domain errors to HTTP statuses and renders
// them with a uniform envelope. Handlers that already wrote a status keep
// theirs; this only fills in the default cases.
func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		writeError := func(status int, description string) {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": description,
				},
			})
		}

		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(http.StatusNotFound, "document does not exist")
		case errors.Is(err, service.ErrorCollectionNotFound):
			writeError(http.StatusNotFound, "collection does not exist")
		case errors.Is(err, service.ErrorCollectionAlreadyExists):
			writeError(http.StatusConflict, "collection already exists")
		case errors.Is(err, collection.ErrInvalidCondition),
			errors.Is(err, collection.ErrInvalidProjection),
			errors.Is(err, collection.ErrInvalidSort):
			writeError(http.StatusBadRequest, "query spec could not be normalized")
		case errors.Is(err, box.ErrResourceNotFound):
			writeError(http.StatusNotFound, fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()))
		case errors.Is(err, box.ErrMethodNotAllowed):
			writeError(http.StatusMethodNotAllowed, fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method))
		default:
			if _, ok := err.(*json.SyntaxError); ok {
				writeError(http.StatusBadRequest, "Malformed JSON")
				return
			}
			writeError(http.StatusInternalServerError, "Unexpected error")
		}
	}
}
