package main

import (
	"context"
	"fmt"

	"github.com/jfk9w-go/flu"
	"github.com/jfk9w-go/flu/apfel"
	"github.com/jfk9w-go/flu/colf"
	"github.com/jfk9w-go/flu/logf"

	optixflow "github.com/optixflow/optixflow-go"
	"github.com/optixflow/optixflow-go/descriptor"
	"github.com/optixflow/optixflow-go/fetch"
	"github.com/optixflow/optixflow-go/resolve"
)

type C struct {
	CDN fetch.Config `yaml:"cdn,omitempty" doc:"CDN connection settings."`

	Optix *optixflow.Config `yaml:"optix,omitempty" doc:"URL optimization settings. Optional; when empty the process environment is consulted."`

	Images colf.Slice[string] `yaml:"images" doc:"Image IDs to resolve and render."`

	Render struct {
		Width  string `yaml:"width,omitempty" doc:"Explicit width hint."`
		Height string `yaml:"height,omitempty" doc:"Explicit height hint."`
		Alt    string `yaml:"alt,omitempty" doc:"Alt text applied to every rendered image."`
	} `yaml:"render,omitempty" doc:"Rendering hints."`

	Logging    apfel.LogfConfig       `yaml:"logging,omitempty" doc:"Logging settings."`
	Prometheus apfel.PrometheusConfig `yaml:"prometheus,omitempty" doc:"Prometheus settings."`
}

func (c C) LogfConfig() apfel.LogfConfig             { return c.Logging }
func (c C) PrometheusConfig() apfel.PrometheusConfig { return c.Prometheus }
func (c C) OptixCDNConfig() fetch.Config             { return c.CDN }

var GitCommit = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := apfel.Boot[C]{
		Name:    "optixflow",
		Version: GitCommit,
	}.App(ctx)
	defer flu.CloseQuietly(app)

	var client fetch.Client[C]
	app.Uses(ctx,
		new(apfel.Logf[C]),
		new(apfel.Prometheus[C]),
		&client,
	)

	config := app.Config()
	flow := optixflow.NewFlow(&client, config.Optix, nil)

	var hints resolve.Hints
	if config.Render.Width != "" {
		hints.Width = config.Render.Width
	}

	if config.Render.Height != "" {
		hints.Height = config.Render.Height
	}

	for _, value := range config.Images {
		id, err := descriptor.ParseID(value)
		if err != nil {
			logf.Errorf(ctx, "skipping image [%s]: %v", value, err)
			continue
		}

		node, err := flow.Render(ctx, optixflow.LegacyLookup{ID: id}, optixflow.Options{
			Hints: hints,
			Alt:   config.Render.Alt,
		})
		if err != nil {
			logf.Errorf(ctx, "render %s: %v", id, err)
			continue
		}

		markup, err := renderHTML(node)
		if err != nil {
			logf.Panicf(ctx, "render markup for %s: %+v", id, err)
		}

		fmt.Println(markup)
	}
}
