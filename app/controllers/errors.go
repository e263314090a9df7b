package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/shashiranjanraj/wardrobe/app/services"
	"github.com/shashiranjanraj/wardrobe/pkg/ctx"
	"github.com/shashiranjanraj/wardrobe/pkg/logger"
)

// writeError maps a service error onto the HTTP error envelope. Anything
// that is not a *services.Error is treated as a storage failure.
func writeError(c *ctx.Context, err error) {
	var e *services.Error
	if !errors.As(err, &e) {
		e = &services.Error{Kind: services.KindStorage, Message: "unexpected error", Err: err}
	}

	switch e.Kind {
	case services.KindValidation:
		switch {
		case len(e.Fields) > 0:
			c.FieldError(http.StatusBadRequest, e.Message, e.Fields)
		case e.Field != "":
			c.FieldError(http.StatusBadRequest, e.Message, map[string]string{e.Field: e.Message})
		default:
			c.Error(http.StatusBadRequest, e.Message)
		}
	case services.KindConflict:
		c.FieldError(http.StatusBadRequest, e.Message, map[string]string{e.Field: e.Message})
	case services.KindNotFound:
		c.NotFound(e.Message)
	case services.KindAuth:
		c.Unauthorized(e.Message)
	case services.KindForbidden:
		c.Forbidden(e.Message)
	default:
		logger.WithCtx(c.Context()).Error("request failed", "op", e.Message, "error", e.Err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// openUpload opens the image part of a form. The returned close func is
// always safe to call.
func openUpload(fh *multipart.FileHeader) (*services.Upload, func(), error) {
	if fh == nil {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &services.Upload{Filename: fh.Filename, Body: f}, func() { f.Close() }, nil
}
