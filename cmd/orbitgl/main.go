package main

import (
	"fmt"
	"os"

	"OrbitGL/internal/engine"
	"OrbitGL/internal/exercises"
	"OrbitGL/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	config    string
	assets    string
	fps       int
	debug     bool
	hotReload bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "orbitgl",
		Short:         "Run the OpenGL course exercises",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.InitWithConfig(opts.debug)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.config, "config", "orbitgl.yaml", "settings file")
	flags.StringVar(&opts.assets, "assets", "", "asset directory (overrides the settings file)")
	flags.IntVar(&opts.fps, "fps", 0, "frame rate limit (overrides the settings file)")
	flags.BoolVar(&opts.debug, "debug", false, "debug logging")
	flags.BoolVar(&opts.hotReload, "hot-reload", false, "rebuild shaders when their files change")

	root.AddCommand(newListCommand(), newRunCommand(opts))
	return root
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available exercises",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range exercises.Names() {
				ex, _ := exercises.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", name, ex.Title)
			}
		},
	}
}

func newRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "run <exercise>",
		Short:     "Open a window running an exercise",
		Args:      cobra.ExactArgs(1),
		ValidArgs: exercises.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runExercise(cmd, opts, args[0])
			if err != nil {
				logger.Log.Error("Exercise failed", zap.String("exercise", args[0]), zap.Error(err))
			}
			return err
		},
	}
}

func runExercise(cmd *cobra.Command, opts *options, name string) error {
	ex, ok := exercises.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown exercise %q, see orbitgl list", name)
	}

	settings, err := engine.LoadSettings(opts.config)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("assets") {
		settings.AssetDir = opts.assets
	}
	if cmd.Flags().Changed("fps") {
		settings.FPS = opts.fps
	}
	if cmd.Flags().Changed("hot-reload") {
		settings.HotReload = opts.hotReload
	}
	if settings.Title == engine.DefaultSettings().Title {
		settings.Title = ex.Title
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	logger.Log.Info("Starting exercise",
		zap.String("exercise", name),
		zap.String("assets", settings.AssetDir),
		zap.Int("fps", settings.FPS))

	return engine.NewApp(settings, ex.New()).Run()
}
