package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	arpatcher "github.com/BSG-75/ARPatcherData"
	"github.com/BSG-75/ARPatcherData/patchpack"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print the header and chunk breakdown of a patch file",
		ArgsUsage: "PATCH",
		Action:    inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: redpatch inspect PATCH", 1)
	}

	rawPatch, err := os.ReadFile(c.Args().Get(0))
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

	var literalBytes, referenceBytes uint64
	var literalChunks, referenceChunks int
	for _, chunk := range patch.Chunks {
		if chunk.IsLiteral() {
			literalChunks++
			literalBytes += uint64(chunk.Length)
		} else {
			referenceChunks++
			referenceBytes += uint64(chunk.Length)
		}
	}

	fmt.Printf("version:        %d\n", patch.Version)
	fmt.Printf("old file:       %s\n", patch.OldFileName)
	fmt.Printf("new file:       %s\n", patch.NewFileName)
	fmt.Printf("escape params:  toBeEscaped=%#02x substitute=%#02x escape=%#02x escape2=%#02x\n",
		patch.Escape.ToBeEscaped, patch.Escape.SubstituteCharacter, patch.Escape.Escape, patch.Escape.Escape2)
	fmt.Printf("chunks:         %d literal (%s), %d reference (%s)\n",
		literalChunks, humanize.Bytes(literalBytes), referenceChunks, humanize.Bytes(referenceBytes))
	return nil
}
