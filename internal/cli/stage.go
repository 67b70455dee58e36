package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/appstage/pkg/config"
	"github.com/arthur-debert/appstage/pkg/filesystem"
	"github.com/arthur-debert/appstage/pkg/filter"
	"github.com/arthur-debert/appstage/pkg/logging"
	"github.com/arthur-debert/appstage/pkg/pipeline"
	"github.com/arthur-debert/appstage/pkg/platforms"
	"github.com/arthur-debert/appstage/pkg/style"
)

// IgnoreFileName holds extra exclusion patterns next to the app source.
const IgnoreFileName = ".appstageignore"

func newStageCmd() *cobra.Command {
	var (
		name           string
		platform       string
		arch           string
		template       string
		out            string
		runtimeVersion string
		tempRoot       string
		noTmpDir       bool
		noPrune        bool
		deref          bool
		archiveOn      bool
		archiveFormat  string
		unpack         string
		ignore         []string
		extras         []string
		format         string
	)

	cmd := &cobra.Command{
		Use:     "stage [source-dir]",
		Short:   MsgStageShort,
		Long:    MsgStageLong,
		Example: MsgStageExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.stage")

			source := "."
			if len(args) > 0 {
				source = args[0]
			}

			outputFormat, err := style.ParseFormat(format)
			if err != nil {
				return err
			}
			if outputFormat == style.FormatAuto {
				outputFormat = style.DetectFormat(os.Stdout)
			}

			cfg, err := config.Load(source)
			if err != nil {
				return reportError(cmd, err, outputFormat)
			}

			// Flags override the loaded configuration
			flags := cmd.Flags()
			if flags.Changed("name") {
				cfg.Name = name
			}
			if flags.Changed("platform") {
				cfg.Platform = platform
			}
			if flags.Changed("arch") {
				cfg.Arch = arch
			}
			if flags.Changed("template") {
				cfg.Template = template
			}
			if flags.Changed("out") {
				cfg.Out = out
			}
			if flags.Changed("runtime-version") {
				cfg.RuntimeVersion = runtimeVersion
			}
			if flags.Changed("temp-root") {
				cfg.TempRoot = tempRoot
			}
			if noTmpDir {
				cfg.TmpDir = false
			}
			if noPrune {
				cfg.Prune = false
			}
			if deref {
				cfg.DerefSymlinks = true
			}
			if archiveOn {
				cfg.Archive.Enabled = true
			}
			if flags.Changed("archive-format") {
				cfg.Archive.Enabled = true
				cfg.Archive.Format = archiveFormat
			}
			if flags.Changed("unpack") {
				cfg.Archive.Unpack = unpack
			}
			cfg.Ignore = append(cfg.Ignore, ignore...)
			cfg.ExtraResources = append(cfg.ExtraResources, extras...)

			staging, err := cfg.Staging()
			if err != nil {
				return reportError(cmd, err, outputFormat)
			}

			f, err := buildFilter(source, cfg.Ignore)
			if err != nil {
				return reportError(cmd, err, outputFormat)
			}

			plat, err := platforms.ForTarget(staging.Platform, staging.Name)
			if err != nil {
				return reportError(cmd, err, outputFormat)
			}

			p, err := pipeline.New(staging, pipeline.Options{Filter: f, Platform: plat})
			if err != nil {
				return reportError(cmd, err, outputFormat)
			}

			logger.Info().
				Str("name", staging.Name).
				Str("platform", staging.Platform).
				Str("arch", staging.Arch).
				Msg("Staging target")

			start := time.Now()
			final, err := p.Run(cmd.Context())
			if err != nil {
				return reportError(cmd, err, outputFormat)
			}

			cmd.Println(style.RenderReport(style.Report{
				Name:     staging.Name,
				Platform: staging.Platform,
				Arch:     staging.Arch,
				Path:     final,
				Duration: time.Since(start),
			}, outputFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Application name")
	cmd.Flags().StringVar(&platform, "platform", "", "Target platform (linux, darwin, win32)")
	cmd.Flags().StringVar(&arch, "arch", "", "Target architecture")
	cmd.Flags().StringVar(&template, "template", "", "Runtime template directory")
	cmd.Flags().StringVar(&out, "out", "", "Output directory for finished bundles")
	cmd.Flags().StringVar(&runtimeVersion, "runtime-version", "", "Runtime version exposed to hooks")
	cmd.Flags().StringVar(&tempRoot, "temp-root", "", "Scratch directory for staging")
	cmd.Flags().BoolVar(&noTmpDir, "no-tmpdir", false, "Stage directly in the output directory")
	cmd.Flags().BoolVar(&noPrune, "no-prune", false, "Keep development dependencies")
	cmd.Flags().BoolVar(&deref, "deref-symlinks", false, "Copy symlink targets instead of links")
	cmd.Flags().BoolVar(&archiveOn, "archive", false, "Pack the app payload into an archive")
	cmd.Flags().StringVar(&archiveFormat, "archive-format", "", "Archive format (asar, tar.gz)")
	cmd.Flags().StringVar(&unpack, "unpack", "", "Glob of files kept outside the archive")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "Extra ignore patterns")
	cmd.Flags().StringSliceVar(&extras, "extra-resource", nil, "Extra files copied into resources/")
	cmd.Flags().StringVar(&format, "format", "auto", MsgFlagFormat)

	return cmd
}

// buildFilter combines configured ignore patterns with the source's
// ignore file.
func buildFilter(source string, patterns []string) (filesystem.Filter, error) {
	all := patterns

	path := filepath.Join(source, IgnoreFileName)
	if f, err := os.Open(path); err == nil {
		defer func() { _ = f.Close() }()
		filePatterns, err := filter.ParsePatterns(f)
		if err != nil {
			return nil, err
		}
		all = append(all, filePatterns...)
	}

	if len(all) == 0 {
		return filter.IncludeAll(), nil
	}
	return filter.New(all)
}

func reportError(cmd *cobra.Command, err error, f style.Format) error {
	cmd.PrintErrln(style.RenderError(err, f))
	return err
}
