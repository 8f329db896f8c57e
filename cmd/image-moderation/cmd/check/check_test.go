package check

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	mock_component "opencsg.com/image-moderation/_mocks/opencsg.com/image-moderation/moderation/component"
	"opencsg.com/image-moderation/common/types"
)

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))

	mc := mock_component.NewMockModerationComponent(t)
	mc.EXPECT().Moderate(mock.Anything, mock.MatchedBy(func(req *types.ModerationRequest) bool {
		return req.Filename == "photo.jpg" && req.File != nil
	})).Return(&types.ModerationDecision{
		Status: types.ModerationStatusRejected,
		Reason: "Gore detected",
		Scores: map[string]float64{"gore_score": 0.8},
	}, nil).Twice()

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())

	failOnReject = false
	require.NoError(t, run(cmd, mc, path))
	require.JSONEq(t, `{"status":"REJECTED","reason":"Gore detected","scores":{"gore_score":0.8}}`, out.String())

	failOnReject = true
	defer func() { failOnReject = false }()
	err := run(cmd, mc, path)
	require.EqualError(t, err, "image rejected: Gore detected")
}

func TestRun_MissingFile(t *testing.T) {
	mc := mock_component.NewMockModerationComponent(t)
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	require.Error(t, run(cmd, mc, filepath.Join(t.TempDir(), "missing.png")))
}
