/*
Copyright © 2026 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/blacktop/go-memdump/pkg/dump"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(mapsCmd)

	mapsCmd.Flags().BoolP("lazy", "l", false, "Tolerate partial dumps (missing mapping content)")
	viper.BindPFlag("maps.lazy", mapsCmd.Flags().Lookup("lazy"))
	mapsCmd.MarkZshCompPositionalArgumentFile(1)
}

// mapsCmd represents the maps command
var mapsCmd = &cobra.Command{
	Use:   "maps <DUMP>",
	Short: "List the mappings of a dump archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		lazy := viper.GetBool("maps.lazy")

		dumpPath := filepath.Clean(args[0])
		if _, err := os.Stat(dumpPath); os.IsNotExist(err) {
			return fmt.Errorf("file %s does not exist", dumpPath)
		}

		ms, err := dump.Load(dumpPath, lazy)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d mappings\n\n", ms.Source, ms.Len())
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 1, ' ', 0)
		fmt.Fprintf(w, "START\tEND\tPERMS\tSIZE\tPATH\t\n")
		for _, m := range ms.All() {
			path := m.Pathname
			if path == "" {
				path = "-"
			}
			fmt.Fprintf(w, "%#x\t%#x\t%s\t%s\t%s\t\n",
				m.Start, m.End, m.Perms, humanize.Bytes(m.Size()), path)
		}
		return w.Flush()
	},
}
