package validator

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	// decoders known to image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/errorx"
	"opencsg.com/image-moderation/common/types"
)

var supportedFormats = map[string]struct{}{
	"jpeg": {},
	"jpg":  {},
	"png":  {},
}

// FileValidator rejects uploads that are not small, non-empty jpeg or png images.
type FileValidator struct {
	maxSize           int64
	allowedExtensions map[string]struct{}
}

func NewFileValidator(maxSize int64, allowedExtensions []string) *FileValidator {
	allowed := make(map[string]struct{}, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext != "" {
			allowed[ext] = struct{}{}
		}
	}
	return &FileValidator{
		maxSize:           maxSize,
		allowedExtensions: allowed,
	}
}

func NewFileValidatorFromConfig(cfg *config.Config) *FileValidator {
	set := cfg.AllowedExtensionSet()
	exts := make([]string, 0, len(set))
	for ext := range set {
		exts = append(exts, ext)
	}
	return NewFileValidator(cfg.Moderation.MaxFileSizeBytes, exts)
}

// Validate checks presence, extension, size and image content, in this order,
// and stops at the first failure. The read position of req.File is restored.
func (v *FileValidator) Validate(ctx context.Context, req *types.ModerationRequest) error {
	if req == nil || req.File == nil || req.Filename == "" {
		return errorx.Validation("the file is not provided", nil)
	}

	if err := v.validateExtension(req.Filename); err != nil {
		return err
	}

	pos, err := req.File.Seek(0, io.SeekCurrent)
	if err != nil {
		return errorx.Validation(fmt.Sprintf("invalid image file: %v", err), errorx.Ctx().Set("filename", req.Filename))
	}
	defer func() {
		if _, err := req.File.Seek(pos, io.SeekStart); err != nil {
			slog.WarnContext(ctx, "failed to restore file position", slog.String("filename", req.Filename), slog.Any("error", err))
		}
	}()

	size, err := v.validateSize(req)
	if err != nil {
		return err
	}

	if err := v.validateImageContent(req); err != nil {
		return err
	}

	slog.InfoContext(ctx, "file validated",
		slog.String("filename", req.Filename),
		slog.String("size", humanize.Bytes(uint64(size))))
	return nil
}

func (v *FileValidator) validateExtension(filename string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if _, ok := v.allowedExtensions[ext]; ok {
		return nil
	}
	allowed := make([]string, 0, len(v.allowedExtensions))
	for e := range v.allowedExtensions {
		allowed = append(allowed, e)
	}
	sort.Strings(allowed)
	return errorx.Validation(
		fmt.Sprintf("the '%s' extension is not allowed, allowed: %s", ext, strings.Join(allowed, ", ")),
		errorx.Ctx().Set("filename", filename),
	)
}

func (v *FileValidator) validateSize(req *types.ModerationRequest) (int64, error) {
	size, err := req.File.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errorx.Validation(fmt.Sprintf("invalid image file: %v", err), errorx.Ctx().Set("filename", req.Filename))
	}
	if size == 0 {
		return 0, errorx.Validation("the file is empty", errorx.Ctx().Set("filename", req.Filename))
	}
	if size > v.maxSize {
		return 0, errorx.Validation(
			fmt.Sprintf("the file size %d bytes exceeds maximum %d bytes", size, v.maxSize),
			errorx.Ctx().Set("filename", req.Filename).Set("size", size).Set("max_size", v.maxSize),
		)
	}
	return size, nil
}

func (v *FileValidator) validateImageContent(req *types.ModerationRequest) error {
	errCtx := errorx.Ctx().Set("filename", req.Filename)

	if _, err := req.File.Seek(0, io.SeekStart); err != nil {
		return errorx.Validation(fmt.Sprintf("invalid image file: %v", err), errCtx)
	}
	mtype, err := mimetype.DetectReader(req.File)
	if err == nil {
		errCtx.Set("detected_mime", mtype.String())
	}

	if _, err := req.File.Seek(0, io.SeekStart); err != nil {
		return errorx.Validation(fmt.Sprintf("invalid image file: %v", err), errCtx)
	}
	cfg, format, err := image.DecodeConfig(req.File)
	if err != nil {
		return errorx.Validation(fmt.Sprintf("invalid image file: %v", err), errCtx)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errorx.Validation("incorrect image dimensions", errCtx)
	}
	if _, ok := supportedFormats[strings.ToLower(format)]; !ok {
		return errorx.Validation(fmt.Sprintf("unsupported format: %s", strings.ToUpper(format)), errCtx)
	}
	return nil
}
