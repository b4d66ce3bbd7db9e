package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect models",
}

func init() {
	modelCmd.AddCommand(modelShowCmd)
}

var modelShowCmd = &cobra.Command{
	Use:   "show <uuid>",
	Short: "Show a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUUID(args[0])
		if err != nil {
			return err
		}

		library, model, err := store.GetModel(id)
		if err != nil {
			return err
		}

		fmt.Printf("uuid:        %s\n", model.UUID)
		fmt.Printf("library:     %s\n", library.Name)
		fmt.Printf("folder:      %s\n", model.Directory)
		fmt.Printf("type:        %s\n", model.Type)
		fmt.Printf("name:        %s\n", model.Name)
		if model.URL != "" {
			fmt.Printf("url:         %s\n", model.URL)
		}
		if model.DOI != "" {
			fmt.Printf("doi:         %s\n", model.DOI)
		}
		if model.Description != "" {
			fmt.Printf("description: %s\n", model.Description)
		}
		for _, inherit := range model.Inherited {
			fmt.Printf("inherits:    %s\n", inherit)
		}

		names := make([]string, 0, len(model.Properties))
		for name := range model.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			prop := model.Properties[name]
			fmt.Printf("property:    %s (%s", name, prop.Type)
			if prop.Units != "" {
				fmt.Printf(", %s", prop.Units)
			}
			fmt.Println(")")
			for _, column := range prop.Columns {
				fmt.Printf("  column:    %s (%s)\n", column.Name, column.Type)
			}
		}
		return nil
	},
}
