package component

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"opencsg.com/image-moderation/builder/prometheus"
	"opencsg.com/image-moderation/builder/sightengine"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/errorx"
	"opencsg.com/image-moderation/common/types"
	"opencsg.com/image-moderation/moderation/analyzer"
	"opencsg.com/image-moderation/moderation/validator"
)

type ModerationComponent interface {
	// Moderate validates the uploaded image, classifies it and returns the decision.
	// Validation failures are returned as is, any later failure as errorx.ErrModeration.
	Moderate(ctx context.Context, req *types.ModerationRequest) (*types.ModerationDecision, error)
}

type moderationComponentImpl struct {
	validator *validator.FileValidator
	client    sightengine.ClassificationClient
	analyzers []analyzer.ContentAnalyzer
	threshold float64
}

func NewModerationComponent(v *validator.FileValidator, client sightengine.ClassificationClient, analyzers []analyzer.ContentAnalyzer, threshold float64) ModerationComponent {
	return &moderationComponentImpl{
		validator: v,
		client:    client,
		analyzers: analyzers,
		threshold: threshold,
	}
}

func NewModerationComponentFromConfig(cfg *config.Config) (ModerationComponent, error) {
	client, err := sightengine.NewClientFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sightengine client: %w", err)
	}
	analyzers := analyzer.CreateAnalyzers(cfg.Moderation.Models)
	if len(analyzers) == 0 {
		slog.Warn("no analyzer matches the configured models, every image will be accepted", slog.String("models", cfg.Moderation.Models))
	}
	return NewModerationComponent(
		validator.NewFileValidatorFromConfig(cfg),
		client,
		analyzers,
		cfg.Moderation.Threshold,
	), nil
}

func (c *moderationComponentImpl) Moderate(ctx context.Context, req *types.ModerationRequest) (*types.ModerationDecision, error) {
	if err := c.validator.Validate(ctx, req); err != nil {
		return nil, err
	}

	errCtx := errorx.Ctx().Set("filename", req.Filename)
	content, err := readAll(req.File)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read uploaded file", slog.String("filename", req.Filename), slog.Any("error", err))
		return nil, errorx.ModerationFailed(fmt.Errorf("couldn't complete moderation: %w", err), errCtx)
	}

	result, err := c.client.CheckContent(ctx, content)
	if err != nil {
		attrs := []any{slog.String("filename", req.Filename), slog.Any("error", err)}
		if code, ok := errorx.StatusCode(err); ok {
			errCtx.Set("upstream_status", code)
			attrs = append(attrs, slog.Int("upstream_status", code))
		}
		slog.ErrorContext(ctx, "moderation error", attrs...)
		return nil, errorx.ModerationFailed(fmt.Errorf("couldn't complete moderation: %w", err), errCtx)
	}

	decision := c.decide(result)
	prometheus.ObserveDecision(decision.Status.String())
	slog.InfoContext(ctx, "moderation finished",
		slog.String("filename", req.Filename),
		slog.String("status", decision.Status.String()),
		slog.String("reason", decision.Reason))
	return decision, nil
}

// decide runs every analyzer in order and rejects when at least one reports a violation.
func (c *moderationComponentImpl) decide(result *sightengine.ClassificationResult) *types.ModerationDecision {
	scores := make(map[string]float64, len(c.analyzers))
	var reasons []string
	for _, a := range c.analyzers {
		outcome := a.Analyze(result, c.threshold)
		scores[a.Name()+"_score"] = outcome.Score
		if outcome.IsViolation && outcome.Reason != "" {
			reasons = append(reasons, outcome.Reason)
			prometheus.ObserveViolation(a.Name())
		}
	}

	if len(reasons) == 0 {
		return &types.ModerationDecision{
			Status: types.ModerationStatusOK,
			Scores: scores,
		}
	}
	return &types.ModerationDecision{
		Status: types.ModerationStatusRejected,
		Reason: strings.Join(reasons, ", "),
		Scores: scores,
	}
}

// readAll reads f from the beginning and rewinds it afterwards.
func readAll(f io.ReadSeeker) ([]byte, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return content, nil
}
