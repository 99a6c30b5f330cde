package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb/v3"
	"github.com/docopt/docopt-go"

	"github.com/porthole-app/porthole-go/src/version"
)

const usage = `genpak - bundle a content root into a single .pak archive.

The archive is what porthole serves from when WWWRoot points at a file
instead of a directory.

Usage:
  genpak [--force] <wwwroot> <output>
  genpak -h | --help
  genpak --version

Options:
  --force    Overwrite the output file if it already exists.
  -h --help  Show this screen.
  --version  Show the version of this build.`

func main() {
	opts, err := docopt.ParseArgs(usage, nil, version.BuildVersion())
	if err != nil {
		panic(err)
	}
	wwwroot, _ := opts.String("<wwwroot>")
	output, _ := opts.String("<output>")
	force, _ := opts.Bool("--force")

	if err := build(wwwroot, output, force); err != nil {
		fmt.Fprintln(os.Stderr, "genpak:", err)
		os.Exit(1)
	}
}

func build(wwwroot, output string, force bool) error {
	info, err := os.Stat(wwwroot)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", wwwroot)
	}
	if !force {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", output)
		}
	}

	var files []string
	err = filepath.Walk(wwwroot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%s contains no files", wwwroot)
	}

	out, err := os.Create(output)
	if err != nil {
		return err
	}
	w := zip.NewWriter(out)

	bar := pb.StartNew(len(files))
	hasHostPage := false
	for _, path := range files {
		rel, err := filepath.Rel(wwwroot, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == "index.html" {
			hasHostPage = true
		}
		f, err := w.Create(name)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		if _, err := io.Copy(f, src); err != nil {
			src.Close()
			return err
		}
		src.Close()
		bar.Increment()
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	bar.Finish()

	if !hasHostPage {
		fmt.Println("Warning: no index.html at the archive root, the host page fallback will have nothing to serve")
	}
	fmt.Println("Wrote", output)
	return nil
}
