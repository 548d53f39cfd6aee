package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"k8s.io/klog/v2"

	"github.com/RitoShark/ritobin-go/binarycodec"
	"github.com/RitoShark/ritobin-go/dictcodec"
	"github.com/RitoShark/ritobin-go/jsoncodec"
	"github.com/RitoShark/ritobin-go/model"
	"github.com/RitoShark/ritobin-go/textcodec"
	"github.com/RitoShark/ritobin-go/unhash"
)

var gitCommitSHA = ""

func main() {
	// set up a context that is canceled when a command is interrupted
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// set up a signal handler to cancel the context
	go func() {
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, syscall.SIGTERM, syscall.SIGINT)

		select {
		case <-interrupt:
			fmt.Println()
			klog.Info("received interrupt signal")
			cancel()
		case <-ctx.Done():
		}

		// Allow any further SIGTERM or SIGINT to kill process
		signal.Stop(interrupt)
	}()

	app := &cli.App{
		Name:        "ritobin",
		Version:     gitCommitSHA,
		Description: "Convert between the binary, text, and JSON forms of a tagged property file.",
		Flags:       NewKlogFlagSet(),
		Commands: []*cli.Command{
			newCmd_Convert(),
			newCmd_Hashes(),
			newCmd_Version(),
		},
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.RunContext(ctx, os.Args); err != nil {
		klog.Fatal(err)
	}
}

func newCmd_Version() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print the version and exit",
		Action: func(c *cli.Context) error {
			fmt.Println(gitCommitSHA)
			return nil
		},
	}
}

func newCmd_Convert() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "convert a property file between its binary (.bin), text (.py/.txt), and JSON (.json) forms",
		ArgsUsage: "<input> [output]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "load a hash dictionary (binary or text, auto-discovered) from this path before converting, and unhash the result",
			},
		},
		Action: func(c *cli.Context) error {
			runID := uuid.New().String()
			in := c.Args().Get(0)
			if in == "" {
				return fmt.Errorf("missing input path")
			}
			out := c.Args().Get(1)
			if out == "" {
				out = defaultOutputPath(in)
			}

			klog.V(2).Infof("[%s] converting %s -> %s", runID, in, out)

			data, err := os.ReadFile(in)
			if err != nil {
				return err
			}

			doc, err := decodeDocument(in, data)
			if err != nil {
				return fmt.Errorf("decoding %s: %w", in, err)
			}

			if dir := c.String("dir"); dir != "" {
				dict, err := dictcodec.LoadAuto(dir)
				if err != nil {
					return fmt.Errorf("loading dictionary %s: %w", dir, err)
				}
				unhash.Apply(doc, dict)
			}

			outBytes, err := encodeDocument(out, doc)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", out, err)
			}

			if err := os.WriteFile(out, outBytes, 0o644); err != nil {
				return err
			}

			klog.V(1).Infof("[%s] wrote %s (%s)", runID, out, humanize.IBytes(uint64(len(outBytes))))
			return nil
		},
	}
}

func newCmd_Hashes() *cli.Command {
	return &cli.Command{
		Name:  "hashes",
		Usage: "manage hash dictionaries",
		Subcommands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "batch-convert a text hash dictionary into its compact binary form",
				ArgsUsage: "<input.txt> <output.bin>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "xxh64",
						Usage: "treat the input as a 64-bit XXH64 dictionary instead of a 32-bit FNV-1a one",
					},
				},
				Action: func(c *cli.Context) error {
					in := c.Args().Get(0)
					out := c.Args().Get(1)
					if in == "" || out == "" {
						return fmt.Errorf("usage: ritobin hashes convert <input.txt> <output.bin>")
					}
					text, err := os.ReadFile(in)
					if err != nil {
						return err
					}
					kind := dictcodec.KindFNV
					if c.Bool("xxh64") {
						kind = dictcodec.KindXXH
					}
					bin := dictcodec.ConvertTextToBinary(string(text), kind)
					if err := os.WriteFile(out, bin, 0o644); err != nil {
						return err
					}
					klog.V(1).Infof("wrote %s (%s)", out, humanize.IBytes(uint64(len(bin))))
					return nil
				},
			},
		},
	}
}

func defaultOutputPath(in string) string {
	ext := filepath.Ext(in)
	base := strings.TrimSuffix(in, ext)
	if ext == ".bin" {
		return base + ".py"
	}
	return base + ".bin"
}

func decodeDocument(path string, data []byte) (*model.Document, error) {
	switch filepath.Ext(path) {
	case ".bin":
		return binarycodec.ReadBinary(data)
	case ".json":
		return jsoncodec.ReadJson(string(data))
	default:
		return textcodec.ReadText(string(data))
	}
}

func encodeDocument(path string, doc *model.Document) ([]byte, error) {
	switch filepath.Ext(path) {
	case ".bin":
		return binarycodec.WriteBinary(doc)
	case ".json":
		return []byte(jsoncodec.WriteJson(doc)), nil
	default:
		return []byte(textcodec.WriteText(doc)), nil
	}
}
