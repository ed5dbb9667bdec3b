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

	"github.com/blacktop/go-memdump/pkg/dump"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(kcoreCmd)

	kcoreCmd.Flags().StringP("system-map", "s", "", "System.map file to resolve well-known kernel symbols")
	viper.BindPFlag("kcore.system-map", kcoreCmd.Flags().Lookup("system-map"))
	kcoreCmd.MarkZshCompPositionalArgumentFile(1)
}

// kcoreCmd represents the kcore command
var kcoreCmd = &cobra.Command{
	Use:   "kcore <DUMP>",
	Short: "Map a raw kernel memory dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {

		systemMap := viper.GetString("kcore.system-map")

		dumpPath := filepath.Clean(args[0])
		if _, err := os.Stat(dumpPath); os.IsNotExist(err) {
			return fmt.Errorf("file %s does not exist", dumpPath)
		}

		ms, err := dump.LoadKcore(dumpPath)
		if err != nil {
			return err
		}
		for _, m := range ms.All() {
			fmt.Println(m)
		}

		if systemMap == "" {
			return nil
		}
		syms := []struct {
			name   string
			lookup func(*os.File) (uint64, bool)
		}{
			{"kernel base", func(f *os.File) (uint64, bool) { return dump.KernelBase(f) }},
			{"init_task", func(f *os.File) (uint64, bool) { return dump.InitTask(f) }},
			{"init end", func(f *os.File) (uint64, bool) { return dump.InitEnd(f) }},
		}
		for _, s := range syms {
			f, err := os.Open(filepath.Clean(systemMap))
			if err != nil {
				return err
			}
			if addr, ok := s.lookup(f); ok {
				fmt.Printf("%-12s %#x\n", s.name, addr)
			} else {
				fmt.Printf("%-12s not found\n", s.name)
			}
			f.Close()
		}
		return nil
	},
}
