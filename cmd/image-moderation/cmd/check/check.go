package check

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/common/types"
	"opencsg.com/image-moderation/moderation/component"
)

var failOnReject bool

func init() {
	Cmd.Flags().BoolVar(&failOnReject, "fail-on-reject", false, "exit with an error when the image is rejected")
}

var Cmd = &cobra.Command{
	Use:   "check <image>",
	Short: "Moderate a local image file and print the decision",
	Example: `
image-moderation check ./photo.jpg
image-moderation check --fail-on-reject ./photo.png
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		c, err := component.NewModerationComponentFromConfig(cfg)
		if err != nil {
			return err
		}
		return run(cmd, c, args[0])
	},
}

func run(cmd *cobra.Command, c component.ModerationComponent, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decision, err := c.Moderate(cmd.Context(), &types.ModerationRequest{
		Filename: filepath.Base(path),
		File:     f,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(decision); err != nil {
		return err
	}
	if failOnReject && decision.Rejected() {
		return fmt.Errorf("image rejected: %s", decision.Reason)
	}
	return nil
}
