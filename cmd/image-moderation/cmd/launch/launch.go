package launch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"opencsg.com/image-moderation/api/httpbase"
	"opencsg.com/image-moderation/builder/instrumentation"
	"opencsg.com/image-moderation/common/config"
	"opencsg.com/image-moderation/docs"
	"opencsg.com/image-moderation/moderation/router"
	"opencsg.com/image-moderation/version"
)

var enableSwagger bool

func init() {
	Cmd.Flags().BoolVar(&enableSwagger, "swagger", false, "Serve swagger docs at /swagger/index.html")
}

var Cmd = &cobra.Command{
	Use:     "launch",
	Short:   "Launch the image moderation http server",
	Example: serverExample(),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}

		cfg.EnableSwagger = enableSwagger || cfg.EnableSwagger
		if cfg.EnableSwagger {
			docs.SwaggerInfo.Title = "Image Moderation API"
			docs.SwaggerInfo.Description = "Moderates uploaded images with Sightengine."
			docs.SwaggerInfo.Version = version.Version
			docs.SwaggerInfo.BasePath = "/"
			docs.SwaggerInfo.Schemes = []string{"http", "https"}
		}

		stopOtel, err := instrumentation.SetupOTelSDK(cmd.Context(), cfg, instrumentation.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to setup opentelemetry: %w", err)
		}
		defer func() {
			_ = stopOtel(context.Background())
		}()

		r, err := router.NewRouter(cfg)
		if err != nil {
			return fmt.Errorf("failed to init router: %w", err)
		}
		slog.Info("http server is running",
			slog.String("host", cfg.APIServer.Host),
			slog.Int("port", cfg.APIServer.Port),
			slog.String("models", cfg.Moderation.Models),
			slog.Float64("threshold", cfg.Moderation.Threshold))
		server := httpbase.NewGracefulServer(
			httpbase.GraceServerOpt{
				Host: cfg.APIServer.Host,
				Port: cfg.APIServer.Port,
			},
			r,
		)
		return server.Run()
	},
}

func serverExample() string {
	return `
# for development
SIGHTENGINE_API_USER=xxx SIGHTENGINE_API_SECRET=xxx image-moderation launch

# with a config file and a log file
image-moderation launch -c config.toml --log-file logs/app.log
`
}
