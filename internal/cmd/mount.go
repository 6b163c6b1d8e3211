package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/notebook-fuse/internal/config"
	"github.com/dendrascience/notebook-fuse/internal/logging"
	"github.com/dendrascience/notebook-fuse/nbfs"
	"github.com/dendrascience/notebook-fuse/version"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// ErrOverlappingPaths is returned when the mountpoint is inside the backing
// root or the other way around.
var ErrOverlappingPaths = errors.New("root and mountpoint overlap")

// NewMountCmd creates and returns the mount subcommand for the nbfs CLI.
// It handles mounting a notebook tree at a mountpoint.
func NewMountCmd() *cobra.Command {
	var (
		configPath  string
		ll          logging.LogLevel
		metricsAddr string
		suffix      string
		allowOther  bool
		strictNames bool
	)

	cmd := &cobra.Command{
		Use:   "mount ROOT MOUNTPOINT",
		Short: "Mount a directory tree with notebooks shown as directories",
		Long: `Mount ROOT read-only at MOUNTPOINT.

Every notebook file under ROOT appears as a directory holding one file per
markdown cell, code cell, stream output and output representation. All other
files and directories are passed through unchanged.

Settings are read from --config (default ~/.config/nbfs/config.yaml when it
exists); flags given on the command line take precedence.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithDefaults(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("log.level") {
				cfg.Log.Level = ll.String()
			}
			if flags.Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if flags.Changed("suffix") {
				cfg.Mount.Suffix = suffix
			}
			if flags.Changed("allow-other") {
				cfg.Mount.AllowOther = allowOther
			}
			if flags.Changed("strict-names") {
				cfg.Mount.StrictNames = strictNames
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runMount(cmd.Context(), cfg, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().Var(&ll, "log.level", "Level to display logs at (error, warn, info, debug)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this host:port")
	cmd.Flags().StringVar(&suffix, "suffix", nbfs.DefaultSuffix, "File suffix that marks a notebook")
	cmd.Flags().BoolVar(&allowOther, "allow-other", false, "Allow other users to access the mount")
	cmd.Flags().BoolVar(&strictNames, "strict-names", false, "Refuse notebooks whose virtual file names collide")

	return cmd
}

func runMount(ctx context.Context, cfg *config.Config, root, mountpoint string) error {
	var ll logging.LogLevel
	if err := ll.Set(cfg.Log.Level); err != nil {
		return err
	}
	l := logging.New(os.Stderr, ll, "nbfs")

	if pathsOverlap(root, mountpoint) {
		return fmt.Errorf("%w: %s and %s", ErrOverlappingPaths, root, mountpoint)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	router, err := nbfs.NewRouter(root,
		nbfs.WithLogger(l),
		nbfs.WithSuffix(cfg.Mount.Suffix),
		nbfs.WithMetrics(nbfs.NewMetrics(reg)),
		nbfs.WithProjectionOptions(nbfs.WithStrictNames(cfg.Mount.StrictNames)),
	)
	if err != nil {
		return err
	}

	var lis net.Listener
	if cfg.Metrics.Enabled() {
		lis, err = net.Listen("tcp", cfg.Metrics.Addr)
		if err != nil {
			return fmt.Errorf("failed to create listener for metrics server: %w", err)
		}
		defer lis.Close()
	}

	opts := []fuse.MountOption{
		fuse.FSName(cfg.Mount.FSName),
		fuse.Subtype("nbfs"),
		fuse.ReadOnly(),
	}
	if cfg.Mount.AllowOther {
		opts = append(opts, fuse.AllowOther())
	}

	c, err := fuse.Mount(mountpoint, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mount: %w", err)
	}
	defer c.Close()

	var g run.Group

	// FUSE worker
	{
		filesystem := nbfs.NewFS(router, l)
		g.Add(func() error {
			level.Info(l).Log("msg", "serving FUSE traffic", "version", version.GetVersion(), "root", router.Root(), "mountpoint", mountpoint)
			return fs.Serve(c, filesystem)
		}, func(error) {
			if err := fuse.Unmount(mountpoint); err != nil {
				level.Warn(l).Log("msg", "failed to unmount", "mountpoint", mountpoint, "err", err)
			}
		})
	}

	// Metrics worker
	if lis != nil {
		srv := newMetricsServer(reg)
		g.Add(func() error {
			level.Debug(l).Log("msg", "listening for http traffic", "addr", lis.Addr())
			return srv.Serve(lis)
		}, func(error) {
			srv.Close()
		})
	}

	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sig run.SignalError
	if errors.As(err, &sig) {
		level.Info(l).Log("msg", "signal received, unmounted", "signal", sig.Signal)
		return nil
	}
	return err
}

func newMetricsServer(reg *prometheus.Registry) *http.Server {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{Handler: r}
}

// pathsOverlap reports whether one path is equal to or nested inside the
// other once both are made absolute.
func pathsOverlap(a, b string) bool {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false
	}
	return within(absA, absB) || within(absB, absA)
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
