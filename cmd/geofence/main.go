package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - derive: Print the coverage circle of a boundary file or vertex list
// - build:  Write a KML boundary document from vertices
// - import: Create an office area from a KML or GeoJSON file
// - list:   List office areas
// - show:   Print the editable vertices of an office area
// - edit:   Replace the boundary of an office area

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := runSubcommand(ctx, os.Args[1], os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type deriveFlags struct {
	cmd          *flag.FlagSet
	file         *string
	vertices     *string
	verticesFile *string
}

type buildFlags struct {
	cmd          *flag.FlagSet
	name         *string
	vertices     *string
	verticesFile *string
	output       *string
}

type importFlags struct {
	cmd  *flag.FlagSet
	file *string
	name *string
}

type showFlags struct {
	cmd    *flag.FlagSet
	id     *int64
	output *string
}

type editFlags struct {
	cmd          *flag.FlagSet
	id           *int64
	name         *string
	vertices     *string
	verticesFile *string
}

func newDeriveFlags() deriveFlags {
	cmd := flag.NewFlagSet("derive", flag.ContinueOnError)

	return deriveFlags{
		cmd:          cmd,
		file:         cmd.String("file", "", "Boundary file (.kml, .json, .geojson)"),
		vertices:     cmd.String("vertices", "", `Vertices as "lon,lat lon,lat ..."`),
		verticesFile: cmd.String("vertices-file", "", "Text file holding vertices"),
	}
}

func newBuildFlags() buildFlags {
	cmd := flag.NewFlagSet("build", flag.ContinueOnError)

	return buildFlags{
		cmd:          cmd,
		name:         cmd.String("name", "", "Placemark name"),
		vertices:     cmd.String("vertices", "", `Vertices as "lon,lat lon,lat ..."`),
		verticesFile: cmd.String("vertices-file", "", "Text file holding vertices"),
		output:       cmd.String("output", "", "Output KML path (default: stdout)"),
	}
}

func newImportFlags() importFlags {
	cmd := flag.NewFlagSet("import", flag.ContinueOnError)

	return importFlags{
		cmd:  cmd,
		file: cmd.String("file", "", "Boundary file (.kml, .json, .geojson)"),
		name: cmd.String("name", "", "Office area name (default: file name)"),
	}
}

func newShowFlags() showFlags {
	cmd := flag.NewFlagSet("show", flag.ContinueOnError)

	return showFlags{
		cmd:    cmd,
		id:     cmd.Int64("id", 0, "Office area id"),
		output: cmd.String("output", "", "Write the vertex text to this file for editing"),
	}
}

func newEditFlags() editFlags {
	cmd := flag.NewFlagSet("edit", flag.ContinueOnError)

	return editFlags{
		cmd:          cmd,
		id:           cmd.Int64("id", 0, "Office area id"),
		name:         cmd.String("name", "", "New office area name"),
		vertices:     cmd.String("vertices", "", `Vertices as "lon,lat lon,lat ..."`),
		verticesFile: cmd.String("vertices-file", "", "Text file holding vertices"),
	}
}

func runSubcommand(ctx context.Context, name string, args []string, out io.Writer) error {
	switch name {
	case "derive":
		return handleDerive(args, out)
	case "build":
		return handleBuild(args, out)
	case "import":
		return handleImport(ctx, args, out)
	case "list":
		return handleList(ctx, out)
	case "show":
		return handleShow(ctx, args, out)
	case "edit":
		return handleEdit(ctx, args, out)
	case "help", "-h", "--help":
		printUsage(out)

		return nil
	default:
		printUsage(out)

		return errors.Errorf("unknown subcommand %q", name)
	}
}

func handleDerive(args []string, out io.Writer) error {
	flags := newDeriveFlags()
	if err := flags.cmd.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse derive flags")
	}

	return runDerive(out, *flags.file, *flags.vertices, *flags.verticesFile)
}

func handleBuild(args []string, out io.Writer) error {
	flags := newBuildFlags()
	if err := flags.cmd.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse build flags")
	}

	return runBuild(out, *flags.name, *flags.vertices, *flags.verticesFile, *flags.output)
}

func handleImport(ctx context.Context, args []string, out io.Writer) error {
	flags := newImportFlags()
	if err := flags.cmd.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse import flags")
	}

	if *flags.file == "" {
		return errors.New("--file flag is required for import command")
	}

	return withOfficeAreas(ctx, func(uc officeAreas) error {
		return runImport(ctx, out, uc, *flags.file, *flags.name)
	})
}

func handleList(ctx context.Context, out io.Writer) error {
	return withOfficeAreas(ctx, func(uc officeAreas) error {
		return runList(ctx, out, uc)
	})
}

func handleShow(ctx context.Context, args []string, out io.Writer) error {
	flags := newShowFlags()
	if err := flags.cmd.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse show flags")
	}

	if *flags.id <= 0 {
		return errors.New("--id flag is required for show command")
	}

	return withOfficeAreas(ctx, func(uc officeAreas) error {
		return runShow(ctx, out, uc, *flags.id, *flags.output)
	})
}

func handleEdit(ctx context.Context, args []string, out io.Writer) error {
	flags := newEditFlags()
	if err := flags.cmd.Parse(args); err != nil {
		return errors.Wrap(err, "failed to parse edit flags")
	}

	if *flags.id <= 0 {
		return errors.New("--id flag is required for edit command")
	}

	vertexText, err := readVertexText(*flags.vertices, *flags.verticesFile)
	if err != nil {
		return err
	}

	return withOfficeAreas(ctx, func(uc officeAreas) error {
		return runEdit(ctx, out, uc, *flags.id, *flags.name, vertexText)
	})
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage: geofence <command> [options]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  derive    Print the coverage circle of a boundary file or vertex list")
	fmt.Fprintln(out, "  build     Write a KML boundary document from vertices")
	fmt.Fprintln(out, "  import    Create an office area from a KML or GeoJSON file")
	fmt.Fprintln(out, "  list      List office areas")
	fmt.Fprintln(out, "  show      Print the editable vertices of an office area")
	fmt.Fprintln(out, "  edit      Replace the boundary of an office area")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Use 'geofence <command> -h' for more information about a command.")
}
