package main

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	arpatcher "github.com/BSG-75/ARPatcherData"
	"github.com/BSG-75/ARPatcherData/patchpack"
)

func applyCommand() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "reconstruct a new file from an old file and a patch",
		ArgsUsage: "OLD PATCH NEW",
		Action:    applyAction,
	}
}

func applyAction(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.Exit("usage: redpatch apply OLD PATCH NEW", 1)
	}
	oldPath, patchPath, newPath := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)

	old, err := os.ReadFile(oldPath)
	if err != nil {
		return errors.Wrap(err, "reading old file")
	}

	rawPatch, err := os.ReadFile(patchPath)
	if err != nil {
		return errors.Wrap(err, "reading patch file")
	}
	patchBytes, err := patchpack.ReadCompressed(bytes.NewReader(rawPatch))
	if err != nil {
		return errors.Wrap(err, "decompressing patch file")
	}
	patch, err := arpatcher.ReadPatch(bytes.NewReader(patchBytes))
	if err != nil {
		return errors.Wrap(err, "parsing patch file")
	}

	start := time.Now()
	newFile, err := arpatcher.Apply(old, patch)
	if err != nil {
		return errors.Wrap(err, "applying patch")
	}

	if err := writeAtomic(newPath, func(f *os.File) error {
		_, err := f.Write(newFile)
		return err
	}); err != nil {
		return errors.Wrap(err, "writing new file")
	}

	logger.WithFields(logrus.Fields{
		"new":     newPath,
		"elapsed": time.Since(start),
	}).Info("apply done")
	return nil
}
