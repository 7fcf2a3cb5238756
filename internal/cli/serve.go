package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/iconatlas/pkg/pipeline"
	"github.com/matzehuels/iconatlas/pkg/server"
)

// serveCommand creates the serve command for previewing a built atlas.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		atlasPath string
		jsonPath  string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview a built atlas over HTTP",
		Example: `  iconatlas serve
  iconatlas serve --atlas assets/icons.png --json assets/icons.json --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			a, err := server.Load(atlasPath, jsonPath)
			if err != nil {
				return fmt.Errorf("load atlas: %w", err)
			}
			srv, err := server.New(a, logger)
			if err != nil {
				return err
			}

			b := a.Sheet.Bounds()
			printKeyValue("Atlas", fmt.Sprintf("%s (%dx%d)", atlasPath, b.Dx(), b.Dy()))
			printKeyValue("Icons", StyleNumber.Render(fmt.Sprint(len(a.Metadata.Icons))))
			printInfo("Serving on %s", StyleLink.Render(serverURL(addr)))
			logger.Debug("starting server", "addr", addr)

			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&atlasPath, "atlas", pipeline.DefaultOutputAtlas, "atlas image to serve")
	cmd.Flags().StringVar(&jsonPath, "json", pipeline.DefaultOutputJSON, "atlas JSON map")
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

// serverURL turns a listen address into a browsable URL.
func serverURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
