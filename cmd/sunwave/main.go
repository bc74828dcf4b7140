package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "sunwave"
	app.Usage = "render the retrowave sun and triangle shader scene"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "config, c",
			Usage: "YAML configuration file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "open a window and render the scene",
			Description: `
Open a window, compile the shaders and draw the scene once per display refresh.
Move the pointer over the window to update the cursor uniform and press Escape to quit.

With --shader-dir the WGSL files are read from disk and watched: saving either file
rebuilds the pipeline and swaps the running scene without recreating the GPU context.`,
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "width",
					Usage: "window width",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "window height",
				},
				cli.BoolTFlag{
					Name:  "vsync",
					Usage: "pace frames to the display refresh",
				},
				cli.BoolFlag{
					Name:  "software",
					Usage: "force the software fallback adapter",
				},
				cli.StringFlag{
					Name:  "shader-dir",
					Usage: "directory holding sun_vertex.wgsl and sun_fragment.wgsl, watched for changes",
				},
				cli.StringFlag{
					Name:  "metrics-addr",
					Usage: "serve Prometheus metrics on this address, e.g. :9090",
				},
				cli.BoolFlag{
					Name:  "profile",
					Usage: "log frame statistics every second",
				},
			},
			Action: runScene,
		},
		{
			Name:  "snapshot",
			Usage: "render one frame on the CPU and save it as PNG",
			Flags: []cli.Flag{
				cli.Float64Flag{
					Name:  "time",
					Usage: "frame timestamp in milliseconds",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "image width",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "image height",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "row workers, 0 for one per CPU",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename",
				},
			},
			Action: snapshotScene,
		},
		{
			Name:      "validate",
			Usage:     "compile the shaders and print the derived layouts",
			ArgsUsage: "[shader-dir]",
			Action:    validateShaders,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "sunwave: %v\n", err)
		os.Exit(1)
	}
}
