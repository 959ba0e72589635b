package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/seller-desk/internal/listquery"
)

const maxBodyBytes = 1 << 20

// writeJSON encodes the body built by fn and writes it with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, fn func(e *jx.Encoder)) {
	var e jx.Encoder
	fn(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(e.Bytes()); err != nil {
		zctx.From(r.Context()).Warn("write response", zap.Error(err))
	}
}

// writeError writes the error envelope shared by all endpoints.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Str(code)
		e.FieldStart("message")
		e.Str(message)
		e.ObjEnd()
	})
}

// readBody drains the request body with a size cap and returns its bytes.
func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()

	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}

// encodePage writes a listquery page as {rows, totalCount, totalPages},
// using item to encode each row.
func encodePage[T any](e *jx.Encoder, p listquery.Page[T], item func(e *jx.Encoder, v T)) {
	e.ObjStart()
	e.FieldStart("rows")
	e.ArrStart()
	for _, row := range p.Rows {
		item(e, row)
	}
	e.ArrEnd()
	e.FieldStart("totalCount")
	e.Int(p.TotalCount)
	e.FieldStart("totalPages")
	e.Int(p.TotalPages)
	e.ObjEnd()
}

// optStr encodes a string field, writing null for the empty string.
func optStr(e *jx.Encoder, v string) {
	if v == "" {
		e.Null()

		return
	}
	e.Str(v)
}

func strArr(e *jx.Encoder, vs []string) {
	e.ArrStart()
	for _, v := range vs {
		e.Str(v)
	}
	e.ArrEnd()
}
