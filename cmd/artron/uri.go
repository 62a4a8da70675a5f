package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ItIsUday/artron/internal/resolve"
)

var uriCmd = &cobra.Command{
	Use:   "uri <tic-id> <sector> | uri --decode <identifier>",
	Short: "Encode a target and sector as an archive identifier, or decode one",
	Example: `  artron uri 12345678 7
  artron uri --decode mast:HLSP/tess-spoc/s0007/target/0000/0000/1234/5678/hlsp_tess-spoc_tess_phot_0000000012345678-s0007_tess_v1_lc.fits`,
	GroupID: "plan",
	// Override PersistentPreRunE so no config file is loaded.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		decode, _ := cmd.Flags().GetBool("decode")
		return runURI(cmd.OutOrStdout(), args, decode, jsonOutput)
	},
}

func runURI(out io.Writer, args []string, decode, asJSON bool) error {
	if decode {
		if len(args) != 1 {
			return fmt.Errorf("--decode takes exactly one identifier")
		}
		pair, err := resolve.DecodeIdentifier(args[0])
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(out, pair)
		}
		fmt.Fprintf(out, "%s %d\n", pair.TargetID, pair.Epoch)
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("expected <tic-id> <sector>")
	}
	epoch, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("sector %q is not an integer", args[1])
	}
	id, err := resolve.EncodeIdentifier(args[0], epoch)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(out, map[string]string{"identifier": id, "file_name": resolve.FileName(id)})
	}
	fmt.Fprintln(out, id)
	return nil
}

func init() {
	uriCmd.Flags().Bool("decode", false, "decode an identifier into its target and sector")
}
