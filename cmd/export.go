package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/atomik/internal/blob"
	"github.com/ziadkadry99/atomik/internal/config"
	"github.com/ziadkadry99/atomik/internal/element"
	"github.com/ziadkadry99/atomik/internal/layout"
	"github.com/ziadkadry99/atomik/internal/progress"
	"github.com/ziadkadry99/atomik/internal/render"
	"github.com/ziadkadry99/atomik/internal/ui"
)

var (
	exportForce     bool
	exportSeed      uint64
	exportSize      int
	exportNoAnimate bool
)

var exportCmd = &cobra.Command{
	Use:   "export [element...]",
	Short: "Render atoms to SVG files in the configured blob store",
	Long: `Renders one SVG per element (every element when none are given) and
writes it to the export target from the config: a local directory (fs) or an
S3-compatible bucket (s3). Existing files are skipped unless --force is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		catalog, err := element.Default()
		if err != nil {
			return fmt.Errorf("loading element catalog: %w", err)
		}
		records, err := lookupElements(catalog, args)
		if err != nil {
			return err
		}

		var seed *uint64
		if cmd.Flags().Changed("seed") {
			seed = &exportSeed
		}
		engine, err := newEngine(cfg, seed)
		if err != nil {
			return fmt.Errorf("creating layout engine: %w", err)
		}

		store, err := blob.Open(ctx, blobOptions(cfg))
		if err != nil {
			return fmt.Errorf("opening %s export store: %w", cfg.Export.Driver, err)
		}

		svgOpts := render.SVGOptions{Size: exportSize, Animate: !exportNoAnimate}

		var written, skipped, failed int
		reporter := progress.NewReporter("Exporting atoms")
		reporter.Start(len(records))
		for i, rec := range records {
			key := exportKey(rec)
			err := exportOne(ctx, store, engine, rec, key, svgOpts)
			switch {
			case err == nil:
				written++
			case errors.Is(err, blob.ErrExists):
				skipped++
			default:
				failed++
				fmt.Fprintf(os.Stderr, "\n%s %s: %v\n", ui.StatusIcon(false), rec.Symbol, err)
			}
			reporter.Update(i+1, key)
		}
		reporter.Finish()

		out := cmd.OutOrStdout()
		ui.Table(out, []string{"Target", "Written", "Skipped", "Failed"}, [][]string{{
			exportTarget(cfg, store),
			fmt.Sprint(written), fmt.Sprint(skipped), fmt.Sprint(failed),
		}})
		if skipped > 0 && !exportForce {
			fmt.Fprintf(out, "%s %d file(s) already existed; use --force to overwrite\n", ui.WarnIcon(), skipped)
		}
		if failed > 0 {
			return fmt.Errorf("%d element(s) failed to export", failed)
		}
		return nil
	},
}

func exportOne(ctx context.Context, store blob.Store, engine *layout.Engine, rec element.Record, key string, opts render.SVGOptions) error {
	scene, err := engine.Scene(rec)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := render.SVG(&buf, scene, opts); err != nil {
		return err
	}

	putOpts := blob.PutOptions{
		ContentType: "image/svg+xml",
		Metadata: map[string]string{
			"element": rec.Symbol,
			"name":    rec.Name,
		},
	}
	if exportForce {
		_, err = blob.Replace(ctx, store, key, &buf, putOpts)
	} else {
		_, err = store.Put(ctx, key, &buf, putOpts)
	}
	return err
}

// exportKey names an element's file so that a directory listing sorts by
// atomic number.
func exportKey(rec element.Record) string {
	return fmt.Sprintf("%03d-%s.svg", rec.AtomicNumber, rec.Symbol)
}

func exportTarget(cfg *config.Config, store blob.Store) string {
	if fs, ok := store.(*blob.FSStore); ok {
		return fs.Root()
	}
	return fmt.Sprintf("s3://%s/%s", cfg.Export.S3.Bucket, cfg.Export.S3.Prefix)
}

func init() {
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "overwrite existing files")
	exportCmd.Flags().Uint64Var(&exportSeed, "seed", 0, "seed for reproducible nucleon shuffles")
	exportCmd.Flags().IntVar(&exportSize, "size", 500, "SVG width and height")
	exportCmd.Flags().BoolVar(&exportNoAnimate, "no-animate", false, "omit shell rotation")
	rootCmd.AddCommand(exportCmd)
}
