package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dukaforge/materialdb/pkg/types"
)

var materialCmd = &cobra.Command{
	Use:   "material",
	Short: "Inspect materials",
}

func init() {
	materialCmd.AddCommand(materialShowCmd)
}

var materialShowCmd = &cobra.Command{
	Use:   "show <uuid>",
	Short: "Show a material",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUUID(args[0])
		if err != nil {
			return err
		}

		library, material, err := store.GetMaterial(id)
		if err != nil {
			return err
		}

		fmt.Printf("uuid:        %s\n", material.UUID)
		fmt.Printf("library:     %s\n", library.Name)
		fmt.Printf("folder:      %s\n", material.Directory)
		fmt.Printf("name:        %s\n", material.Name)
		if material.Author != "" {
			fmt.Printf("author:      %s\n", material.Author)
		}
		if material.License != "" {
			fmt.Printf("license:     %s\n", material.License)
		}
		if material.Parent != "" {
			fmt.Printf("parent:      %s\n", material.Parent)
		}
		if material.Description != "" {
			fmt.Printf("description: %s\n", material.Description)
		}
		if len(material.Tags) > 0 {
			fmt.Printf("tags:        %s\n", strings.Join(material.Tags, ", "))
		}
		for _, uuid := range material.PhysicalModels {
			fmt.Printf("physical:    %s\n", uuid)
		}
		for _, uuid := range material.AppearanceModels {
			fmt.Printf("appearance:  %s\n", uuid)
		}

		names := make([]string, 0, len(material.Properties))
		for name := range material.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s: %s\n", name, formatValue(material.Properties[name]))
		}
		return nil
	},
}

func formatValue(value *types.PropertyValue) string {
	switch types.ShapeOf(value.Type) {
	case types.ShapeString, types.ShapeLongString:
		return value.String
	case types.ShapeStringList, types.ShapeLongStringList:
		return strings.Join(value.List, ", ")
	case types.ShapeArray2D:
		if value.Array2D == nil {
			return ""
		}
		return fmt.Sprintf("%dx%d array", value.Array2D.Rows(), value.Array2D.Columns())
	case types.ShapeArray3D:
		if value.Array3D == nil {
			return ""
		}
		return fmt.Sprintf("%d-depth array, %d columns", value.Array3D.Depth(), value.Array3D.Columns())
	}
	return value.String
}
