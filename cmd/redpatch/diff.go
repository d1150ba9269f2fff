package main

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	arpatcher "github.com/BSG-75/ARPatcherData"
	"github.com/BSG-75/ARPatcherData/chainoracle"
	"github.com/BSG-75/ARPatcherData/patchpack"
	"github.com/BSG-75/ARPatcherData/suffixoracle"
)

func diffCommand() *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compute a patch from an old file to a new file",
		ArgsUsage: "OLD NEW PATCH",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "matcher",
				Usage: "match oracle backend: suffix or chain",
				Value: "suffix",
			},
			&cli.StringFlag{
				Name:  "compress",
				Usage: "outer patch-file compression: none, snappy, or lz4",
				Value: "none",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "show a progress bar while segmenting",
			},
		},
		Action: diffAction,
	}
}

func diffAction(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.Exit("usage: redpatch diff OLD NEW PATCH", 1)
	}
	oldPath, newPath, patchPath := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	codec, err := patchpack.ParseCodec(c.String("compress"))
	if err != nil {
		return errors.Wrap(err, "parsing --compress")
	}
	factory, err := oracleFactory(c.String("matcher"))
	if err != nil {
		return errors.Wrap(err, "parsing --matcher")
	}

	old, err := os.ReadFile(oldPath)
	if err != nil {
		return errors.Wrap(err, "reading old file")
	}
	newFile, err := os.ReadFile(newPath)
	if err != nil {
		return errors.Wrap(err, "reading new file")
	}

	logger.WithFields(logrus.Fields{
		"old":  oldPath,
		"new":  newPath,
		"size": humanize.Bytes(uint64(len(newFile))),
	}).Info("starting diff")

	var bar *pb.ProgressBar
	if c.Bool("progress") {
		bar = pb.New(len(newFile)).SetUnits(pb.U_BYTES)
		bar.Start()
		defer bar.Finish()
		factory = progressFactory(factory, bar)
	}

	start := time.Now()
	patch, err := arpatcher.Diff(old, newFile, filepath.Base(oldPath), filepath.Base(newPath), factory)
	if err != nil {
		return errors.Wrap(err, "computing diff")
	}

	if err := writeAtomic(patchPath, func(f *os.File) error {
		return writePatchFile(f, patch, codec)
	}); err != nil {
		return errors.Wrap(err, "writing patch file")
	}

	logger.WithFields(logrus.Fields{
		"chunks":   len(patch.Chunks),
		"elapsed":  time.Since(start),
		"compress": codec,
	}).Info("diff done")
	return nil
}

func writePatchFile(f *os.File, patch arpatcher.PatchData, codec patchpack.Codec) error {
	var buf bytes.Buffer
	if err := arpatcher.WritePatch(&buf, patch); err != nil {
		return err
	}
	return patchpack.WriteCompressed(f, codec, buf.Bytes())
}

func oracleFactory(name string) (arpatcher.OracleFactory, error) {
	switch name {
	case "", "suffix":
		return func(old []byte, p arpatcher.EscapeParams) arpatcher.MatchOracle {
			return suffixoracle.New(old, p)
		}, nil
	case "chain":
		return func(old []byte, p arpatcher.EscapeParams) arpatcher.MatchOracle {
			return chainoracle.New(old, p)
		}, nil
	default:
		return nil, errors.Errorf("unknown matcher %q", name)
	}
}

// progressFactory wraps an OracleFactory's oracle so every LongestMatch
// query that advances past the previous high-water mark nudges bar
// forward, giving the user feedback during long segmentations.
func progressFactory(factory arpatcher.OracleFactory, bar *pb.ProgressBar) arpatcher.OracleFactory {
	return func(old []byte, p arpatcher.EscapeParams) arpatcher.MatchOracle {
		return &progressOracle{inner: factory(old, p), bar: bar}
	}
}

type progressOracle struct {
	inner arpatcher.MatchOracle
	bar   *pb.ProgressBar
	high  int
}

func (o *progressOracle) LongestMatch(newFile []byte, i int) (int, int) {
	if i > o.high {
		o.bar.Set(i)
		o.high = i
	}
	return o.inner.LongestMatch(newFile, i)
}
