package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/avollmer/sceneslice/internal/config"
	"github.com/avollmer/sceneslice/internal/errors"
	"github.com/avollmer/sceneslice/internal/extractor"
	"github.com/avollmer/sceneslice/internal/models"
	"github.com/avollmer/sceneslice/internal/parser"
	"github.com/avollmer/sceneslice/internal/placement"
	"github.com/avollmer/sceneslice/internal/preview"
	"github.com/avollmer/sceneslice/internal/slicer"
)

// CLI defines the command-line interface
var CLI struct {
	Input    string  `help:"Path to the scene JSON document. If not specified, reads from stdin." short:"i" type:"path"`
	Output   string  `help:"Path for the slice document. Defaults to the scene path with the slice suffix, or stdout when reading stdin." short:"o" type:"path"`
	Stdout   bool    `help:"Write the slice document to stdout instead of a file." short:"s"`
	Suffix   string  `help:"Derived filename convention: dot (scene.slice.json) or underscore (scene_slice.json)." enum:"dot,underscore" default:"dot"`
	Preview  bool    `help:"Also emit the 2D preview primitives as JSON on stdout." short:"p"`
	Width    float64 `help:"Available preview width in pixels." default:"260"`
	Height   float64 `help:"Available preview height in pixels." default:"260"`
	RoomPlan string  `help:"Path to a room plan JSON for agent placement markers." type:"path"`
	Agents   string  `help:"Path to an agents JSON for agent placement markers." type:"path"`
	Config   string  `help:"Path to a config file. Searched for in parent directories when omitted." short:"c" type:"path"`
	Debug    bool    `help:"Enable debug logging." short:"d"`
	Version  bool    `help:"Show version information." short:"v"`
}

// Version information
const (
	Version = "0.2.0"
)

func main() {
	cliParser := kong.Must(&CLI,
		kong.Name("sceneslice"),
		kong.Description("Slices a 3D scene document into a 2D floor-plan document"),
		kong.UsageOnError(),
	)

	if _, err := cliParser.Parse(os.Args[1:]); err != nil {
		// Usage was already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("sceneslice version %s\n", Version)
		return
	}

	logger, err := buildLogger(CLI.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: sceneslice --help\n")
		os.Exit(1)
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// run executes the pipeline: parse -> extract -> resolve -> filter -> project
func run(logger *zap.Logger) error {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, CLI.Suffix, CLI.Width, CLI.Height, CLI.Debug)
	if err != nil {
		return errors.NewInputError("invalid configuration", err)
	}

	// 1. Parse the scene document
	root, err := parseInput(cfg)
	if err != nil {
		return err
	}

	// 2. Extract scene objects
	objects := extractor.NewExtractor().Extract(root)
	logger.Debug("extracted scene objects", zap.Int("count", len(objects)))

	// 3+4. Resolve the slice height and filter
	doc, err := slicer.BuildDocument(objects)
	if err != nil {
		return err
	}
	logger.Info("slice produced",
		zap.Float64("slice_height", doc.SliceHeight),
		zap.Int("objects", len(doc.Objects)),
	)

	// 5. Write the slice document
	if err := writeSlice(cfg, doc); err != nil {
		return err
	}

	// 6. Optional preview projection
	if CLI.Preview {
		markers, err := loadMarkers(logger)
		if err != nil {
			return err
		}
		sliced := slicer.FilterAtHeight(objects, doc.SliceHeight)
		proj := preview.Project(sliced, markers, preview.Viewport{
			OriginX: cfg.Preview.OriginX,
			OriginY: cfg.Preview.OriginY,
			Width:   cfg.Preview.Width,
			Height:  cfg.Preview.Height,
		})
		if proj.Empty {
			logger.Info("preview has no positions, emitting empty projection")
		}
		if err := writeJSON(os.Stdout, proj); err != nil {
			return errors.NewOutputError("failed to write preview", err)
		}
	}

	return nil
}

// parseInput reads the scene document from file or stdin
func parseInput(cfg *config.Config) (*models.Value, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal with nothing piped in
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return parser.ParseWithDepth(bytes.NewReader(data), cfg.Parser.MaxDepth)
}

// writeSlice writes the document to the chosen destination. Reading from
// stdin without -o falls back to stdout, since there is no source path to
// derive a filename from.
func writeSlice(cfg *config.Config, doc models.SliceDocument) error {
	data, err := slicer.EncodeDocument(doc)
	if err != nil {
		return err
	}

	if CLI.Stdout || (CLI.Output == "" && CLI.Input == "") {
		if _, err := os.Stdout.Write(data); err != nil {
			return errors.NewOutputError("failed to write to stdout", err)
		}
		return nil
	}

	outPath := CLI.Output
	if outPath == "" {
		outPath = cfg.SlicePath(CLI.Input)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", outPath), err)
	}
	fmt.Fprintf(os.Stderr, "Slice document written to %s\n", outPath)
	return nil
}

// loadMarkers runs spawn-point placement when a room plan and agents file
// are both given. Preview works without them; markers are an add-on.
func loadMarkers(logger *zap.Logger) ([]models.Marker, error) {
	if CLI.RoomPlan == "" || CLI.Agents == "" {
		return nil, nil
	}
	roomPlan, err := parser.ParseFile(CLI.RoomPlan)
	if err != nil {
		return nil, errors.NewPlacementError("failed to read room plan", err)
	}
	agentsDoc, err := parser.ParseFile(CLI.Agents)
	if err != nil {
		return nil, errors.NewPlacementError("failed to read agents file", err)
	}
	agents := placement.ParseAgents(agentsDoc)
	placements := placement.AssignSpawnPoints(roomPlan, agents)
	logger.Debug("assigned spawn points", zap.Int("agents", len(agents)), zap.Int("placed", len(placements)))
	return placement.Markers(placements), nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
