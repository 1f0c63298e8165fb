// Command rtcm2rinex converts a logged RTCM3 capture file into a RINEX 3.0
// observation file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/mholt/archiver/v3"
	"github.com/urfave/cli/v2"

	"github.com/goblimey/rtcm2rinex/internal/config"
	"github.com/goblimey/rtcm2rinex/internal/decoder"
	"github.com/goblimey/rtcm2rinex/internal/rinexwriter"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	app := &cli.App{
		Name:  "rtcm2rinex",
		Usage: "convert an RTCM3 GNSS capture into a RINEX 3.0 observation file",
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "convert one RTCM3 file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "use-rtklib-lli",
						Usage: "use the simplified RTKLIB-style lock-loss rule instead of the RTCM standard table",
					},
					&cli.BoolFlag{
						Name:  "gzip",
						Usage: "the input file is gzip-compressed",
					},
					&cli.Uint64Flag{
						Name:  "week-offset",
						Usage: "GPS week rollover offset added to ephemeris week numbers",
						Value: decoder.DefaultWeekRolloverOffset,
					},
				},
				Action: runConvert,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("rtcm2rinex failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func runConvert(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("convert needs exactly one input file", 1)
	}

	mode := config.LLIModeStandard
	if c.Bool("use-rtklib-lli") {
		mode = config.LLIModeRTKLIB
	}

	cfg := &config.Config{
		InputPath:          c.Args().Get(0),
		Gzip:               c.Bool("gzip"),
		LLIMode:            mode,
		WeekRolloverOffset: c.Uint64("week-offset"),
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	lockMode := decoder.Standard
	if cfg.LLIMode == config.LLIModeRTKLIB {
		lockMode = decoder.RtklibSimplified
	}

	runID := uuid.NewString()
	logger := slog.Default().With(slog.String("run_id", runID))
	logger.Info("starting conversion", slog.String("input", cfg.InputPath))

	d := decoder.New(lockMode, logger)
	d.WeekRolloverOffset = cfg.WeekRolloverOffset

	inputPath := cfg.InputPath
	if cfg.Gzip {
		decompressed, err := decompress(cfg.InputPath)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer os.Remove(decompressed)
		inputPath = decompressed
	}

	if err := d.LoadFile(inputPath); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	outputPath := cfg.OutputPath()
	if err := rinexwriter.Write(outputPath, d.Snapshot(), d.ObservedSignals()); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger.Info("conversion complete", slog.String("output", outputPath))
	fmt.Fprintf(c.App.Writer, "wrote %s\n", outputPath)
	return nil
}

// decompress gunzips path into a temporary file and returns its name. The
// caller is responsible for removing it once conversion is done.
func decompress(path string) (string, error) {
	out, err := os.CreateTemp("", "rtcm2rinex-*.rtcm3")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	out.Close()

	if err := archiver.DecompressFile(path, out.Name()); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("decompressing %s: %w", path, err)
	}

	return out.Name(), nil
}
