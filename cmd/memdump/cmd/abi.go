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

	"github.com/blacktop/go-memdump/pkg/abi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(abiCmd)

	abiCmd.Flags().Uint64P("pointer", "p", 8, "Target pointer width in bytes")
	abiCmd.Flags().Uint64P("long", "l", 8, "Target long width in bytes")
	abiCmd.Flags().Uint64P("longdouble", "d", 16, "Target long double width in bytes")
	viper.BindPFlag("abi.pointer", abiCmd.Flags().Lookup("pointer"))
	viper.BindPFlag("abi.long", abiCmd.Flags().Lookup("long"))
	viper.BindPFlag("abi.longdouble", abiCmd.Flags().Lookup("longdouble"))
}

// abiCmd represents the abi command
var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "Show the derived type layout for a target profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {

		ptr := viper.GetUint64("abi.pointer")
		long := viper.GetUint64("abi.long")
		longDouble := viper.GetUint64("abi.longdouble")

		p, err := abi.NewProfile(ptr, long, longDouble)
		if err != nil {
			return err
		}
		types, err := abi.TypesFor(p)
		if err != nil {
			return err
		}
		fmt.Print(types.Dump())
		return nil
	},
}
