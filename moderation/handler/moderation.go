package handler

import (
	"errors"
	"log/slog"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"opencsg.com/image-moderation/api/httpbase"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/errorx"
	"opencsg.com/image-moderation/common/types"
	"opencsg.com/image-moderation/moderation/component"
)

const uploadFieldName = "file"

type ModerationHandler struct {
	c component.ModerationComponent
}

func NewModerationHandler(cfg *config.Config) (*ModerationHandler, error) {
	c, err := component.NewModerationComponentFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewModerationHandlerWithComponent(c), nil
}

func NewModerationHandlerWithComponent(c component.ModerationComponent) *ModerationHandler {
	return &ModerationHandler{
		c: c,
	}
}

// Moderate
//
//	@Summary		Moderate an image
//	@Description	checks an uploaded jpeg or png image against the configured content categories
//	@Tags			Moderation
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"image to moderate"
//	@Success		200		{object}	types.ModerationDecision
//	@Failure		400		{object}	httpbase.ErrorResponse	"Bad request"
//	@Failure		503		{object}	httpbase.ErrorResponse	"Moderation failed"
//	@Failure		500		{object}	httpbase.ErrorResponse	"Internal server error"
//	@Router			/moderate [post]
func (h *ModerationHandler) Moderate(ctx *gin.Context) {
	req := &types.ModerationRequest{}
	fileHeader, err := ctx.FormFile(uploadFieldName)
	if err == nil {
		var f multipart.File
		f, err = fileHeader.Open()
		if err != nil {
			slog.ErrorContext(ctx.Request.Context(), "failed to open uploaded file", slog.String("filename", fileHeader.Filename), slog.Any("error", err))
			httpbase.ServerError(ctx)
			return
		}
		defer f.Close()
		req.Filename = fileHeader.Filename
		req.File = f
	} else {
		// the validator reports the missing file
		slog.DebugContext(ctx.Request.Context(), "no file in request", slog.Any("error", err))
	}

	decision, err := h.c.Moderate(ctx.Request.Context(), req)
	if err != nil {
		customErr, isCustom := errorx.GetFirstCustomError(err)
		switch {
		case isCustom && errors.Is(err, errorx.ErrValidation):
			slog.InfoContext(ctx.Request.Context(), "validation error",
				slog.String("filename", req.Filename),
				slog.String("error", customErr.Message()),
				slog.Any("context", customErr.Context()))
			httpbase.BadRequest(ctx, customErr.Message())
		case errors.Is(err, errorx.ErrModeration):
			slog.ErrorContext(ctx.Request.Context(), "moderation error",
				slog.String("filename", req.Filename),
				slog.Any("error", err),
				slog.Any("context", customErr.Context()))
			httpbase.ServiceUnavailable(ctx)
		default:
			slog.ErrorContext(ctx.Request.Context(), "unexpected error", slog.String("filename", req.Filename), slog.Any("error", err))
			httpbase.ServerError(ctx)
		}
		return
	}

	httpbase.OK(ctx, decision)
}
