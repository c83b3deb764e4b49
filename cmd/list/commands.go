package list

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/dList/rpc/common"
	"github.com/spf13/cobra"
	"strings"
)

var (
	appendCmd = &cobra.Command{
		Use:   "append [value]",
		Short: "Appends a value to the list and prints the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := rpcList.Append(args[0])
			if err != nil && !errors.Is(err, common.ErrPersistence) {
				return err
			}
			printList(values)
			return err
		},
	}
	getCmd = &cobra.Command{
		Use:   "get",
		Short: "Prints the list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := rpcList.Get()
			if err != nil {
				return err
			}
			printList(values)
			return nil
		},
	}
	callCmd = &cobra.Command{
		Use:   "call [command] [argument]",
		Short: "Calls a command by name, the argument is optional",
		Long:  `Calls a command by name. Without an argument the request carries no value, which is different from an empty string ("").`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := common.NoValue()
			if len(args) == 2 {
				arg = common.StringValue(args[1])
			}

			result, err := rpcList.Call(args[0], arg)
			if err != nil && !errors.Is(err, common.ErrPersistence) {
				return err
			}
			if result.IsList() {
				printList(result.List())
			} else {
				fmt.Println(result)
			}
			return err
		},
	}
)

// printList prints one value per line, prefixed with its index
func printList(values []string) {
	if len(values) == 0 {
		fmt.Println("(empty)")
		return
	}
	width := len(fmt.Sprint(len(values) - 1))
	for i, v := range values {
		fmt.Printf("%*d: %s\n", width, i, strings.ReplaceAll(v, "\n", `\n`))
	}
}
