package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
	xhttp "github.com/nimasrn/seller-crm/pkg/http"
	"github.com/nimasrn/seller-crm/pkg/logger"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

type statusResponse struct {
	Status string `json:"status"`
}

var okResponse = statusResponse{Status: "OK"}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	body := ctx.PostBody()
	return json.Unmarshal(body, dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	writeRaw(ctx, status, b)
}

func writeRaw(ctx *xhttp.RequestCtx, status int, b []byte) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string, at time.Time) {
	writeJSON(ctx, status, errorResponse{Error: msg, Timestamp: at.UnixMilli()})
}

// writeDomainError maps err to a status code. Anything that is not a domain
// error is logged and reported as 500 without its details.
func writeDomainError(ctx *xhttp.RequestCtx, err error) {
	var de *model.Error
	if !errors.As(err, &de) {
		logger.Error("[handlers] request failed", "path", string(ctx.Path()), "error", err)
		writeError(ctx, xhttp.StatusInternalServerError, xhttp.StatusText(xhttp.StatusInternalServerError), time.Now())
		return
	}
	writeError(ctx, statusOf(de), de.Message, de.Timestamp)
}

func statusOf(de *model.Error) int {
	switch de.Kind {
	case model.KindNotFound:
		return xhttp.StatusNotFound
	case model.KindNotUpdated, model.KindNotDeleted:
		if de.IsMissing() {
			return xhttp.StatusNotFound
		}
	}
	return xhttp.StatusBadRequest
}

func badRequest(format string, args ...any) error {
	return model.NewError(model.KindValidation, nil, format, args...)
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	raw := fmt.Sprint(ctx.UserValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, badRequest("invalid %s: %q", name, raw)
	}
	return id, nil
}

func pathString(ctx *xhttp.RequestCtx, name string) string {
	s, _ := ctx.UserValue(name).(string)
	return s
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

// queryTime returns nil when the parameter is absent.
func queryTime(ctx *xhttp.RequestCtx, key string) (*time.Time, error) {
	v := query(ctx, key)
	if v == "" {
		return nil, nil
	}
	t, err := parseTime(v)
	if err != nil {
		return nil, badRequest("invalid %s: %q", key, v)
	}
	return &t, nil
}

// queryAmount parses a decimal query value. NaN, infinities and values
// beyond the float64 range are rejected.
func queryAmount(ctx *xhttp.RequestCtx, key string) (float64, error) {
	v := query(ctx, key)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return 0, badRequest("invalid %s: %q", key, v)
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) {
		return 0, badRequest("invalid %s: %q", key, v)
	}
	return f, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// parseTime accepts RFC3339, an ISO date-time without zone (read as UTC)
// or a bare date. An explicit offset is kept so calendar buckets follow it.
func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
