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
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/blacktop/go-memdump/pkg/dump"
	"github.com/blacktop/go-memdump/pkg/valid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().BoolP("lazy", "l", false, "Tolerate partial dumps (missing mapping content)")
	viper.BindPFlag("read.lazy", readCmd.Flags().Lookup("lazy"))
	readCmd.MarkZshCompPositionalArgumentFile(1)
}

// readCmd represents the read command
var readCmd = &cobra.Command{
	Use:   "read <DUMP> <ADDRESS> <LENGTH>",
	Short: "Hexdump bytes at an address of a dump",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {

		lazy := viper.GetBool("read.lazy")

		dumpPath := filepath.Clean(args[0])
		if _, err := os.Stat(dumpPath); os.IsNotExist(err) {
			return fmt.Errorf("file %s does not exist", dumpPath)
		}

		addr, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 64)
		if err != nil {
			return fmt.Errorf("bad address %q: %w", args[1], err)
		}
		length, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("bad length %q: %w", args[2], err)
		}

		ms, err := dump.Load(dumpPath, lazy)
		if err != nil {
			return err
		}

		m, err := valid.Validate(addr, ms, nil)
		if err != nil {
			return err
		}
		log.Debugf("address %#x is in %s", addr, m)

		data, err := m.ReadAddr(addr, length)
		if err != nil {
			return err
		}
		fmt.Print(hex.Dump(data))
		return nil
	},
}
