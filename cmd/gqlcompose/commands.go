package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	app "github.com/hanpama/gqlcompose/internal/app"
	config "github.com/hanpama/gqlcompose/internal/config"
	dynamic "github.com/hanpama/gqlcompose/internal/dynamic"
	eventbus "github.com/hanpama/gqlcompose/internal/eventbus"
	otel "github.com/hanpama/gqlcompose/internal/otel"
	server "github.com/hanpama/gqlcompose/internal/server"
	telemetry "github.com/hanpama/gqlcompose/internal/telemetry"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"google.golang.org/grpc/metadata"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// errResponseErrors makes the query command exit non-zero after printing a
// response that carries errors.
var errResponseErrors = errors.New("response contains errors")

// cli holds state shared by every command, filled in before each run.
type cli struct {
	cfg      *config.Config
	logger   *otelzap.Logger
	logLevel string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "gqlcompose",
		Short:        "Compose a GraphQL schema from independent modules and serve it",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.AddCommand(c.sdlCmd(), c.queryCmd(), c.serveCmd())
	return root
}

func (c *cli) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	logger, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	c.cfg, c.logger = cfg, logger
	return nil
}

func (c *cli) schema() (*dynamic.Schema, error) {
	s, err := app.NewSchema(c.logger.Logger, app.Modules()...)
	if err != nil {
		return nil, fmt.Errorf("assembling schema: %w", err)
	}
	return s, nil
}

func (c *cli) sdlCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "sdl",
		Short: "Write the composed schema in SDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("out") {
				out = c.cfg.SDLOut
			}
			s, err := c.schema()
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := io.WriteString(cmd.OutOrStdout(), s.SDL())
				return err
			}
			if err := os.WriteFile(out, []byte(s.SDL()), 0o644); err != nil {
				return err
			}
			c.logger.Info("schema written", zap.String("path", out))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "schema.graphql", `output file, or "-" for stdout`)
	return cmd
}

func (c *cli) queryCmd() *cobra.Command {
	var (
		variables string
		operation string
		headers   []string
		pretty    bool
	)
	cmd := &cobra.Command{
		Use:   "query <document>",
		Short: `Execute one GraphQL document and print the JSON response ("-" reads stdin)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := args[0]
			if doc == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				doc = string(b)
			}
			vars := map[string]any{}
			if variables != "" {
				if err := json.Unmarshal([]byte(variables), &vars); err != nil {
					return fmt.Errorf("invalid --variables: %w", err)
				}
			}
			md := metadata.MD{}
			for _, h := range headers {
				k, v, ok := strings.Cut(h, "=")
				if !ok || k == "" {
					return fmt.Errorf("invalid --header %q, want name=value", h)
				}
				md.Append(strings.ToLower(k), v)
			}

			s, err := c.schema()
			if err != nil {
				return err
			}
			ctx := metadata.NewIncomingContext(cmd.Context(), md)
			res := s.Execute(ctx, dynamic.Request{Query: doc, OperationName: operation, Variables: vars, Root: app.Root()})

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty || c.cfg.Pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(res); err != nil {
				return err
			}
			if len(res.Errors) > 0 {
				return errResponseErrors
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&variables, "variables", "", "variables as a JSON object")
	cmd.Flags().StringVar(&operation, "operation", "", "operation name")
	cmd.Flags().StringArrayVar(&headers, "header", nil, "forwarded header as name=value; repeatable")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON response")
	return cmd
}

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the composed schema over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.cfg
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			bus := eventbus.New()
			eventbus.Use(bus)
			defer eventbus.Use(nil)

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			defer telemetry.NewMetrics(reg).Subscribe(bus)()

			shutdown, err := otel.Setup(ctx, bus, cfg.OTELEndpoint, cfg.OTELProtocol, cfg.ServiceName)
			if err != nil {
				c.logger.Warn("failed to initialize tracer", zap.Error(err))
			} else {
				defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()
			}

			s, err := c.schema()
			if err != nil {
				return err
			}
			h := server.New(s,
				server.WithTimeout(cfg.RequestTimeout),
				server.WithPretty(cfg.Pretty),
				server.WithMaxBodyBytes(cfg.MaxBodyBytes),
				server.WithCORS(cfg.CORSOrigins...),
				server.WithMetadataHeaders(cfg.MetadataHeaders...),
				server.WithRoot(app.Root),
				server.WithLogger(c.logger),
			)
			c.logger.Info("starting gqlcompose", zap.String("addr", cfg.Addr), zap.String("version", version))
			if err := server.Run(ctx, cfg.Addr, server.NewMux(h, reg), c.logger); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
