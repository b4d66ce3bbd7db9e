package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var libraryIconFile string

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage material libraries",
}

func init() {
	libraryCreateCmd.Flags().StringVar(&libraryIconFile, "icon", "", "icon image file")
	libraryCreateCmd.Flags().Bool("read-only", false, "mark the library read-only")

	libraryCmd.AddCommand(libraryCreateCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryRenameCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryIconCmd)
	libraryCmd.AddCommand(libraryFoldersCmd)
	libraryCmd.AddCommand(libraryModelsCmd)
	libraryCmd.AddCommand(libraryMaterialsCmd)
}

var libraryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var icon []byte
		if libraryIconFile != "" {
			var err error
			icon, err = os.ReadFile(libraryIconFile)
			if err != nil {
				return fmt.Errorf("read icon: %w", err)
			}
		}
		readOnly, _ := cmd.Flags().GetBool("read-only")

		if err := store.CreateLibrary(args[0], icon, readOnly); err != nil {
			return err
		}
		fmt.Printf("library %q created\n", args[0])
		return nil
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List libraries",
	RunE: func(cmd *cobra.Command, args []string) error {
		libraries, err := store.Libraries()
		if err != nil {
			return err
		}
		for _, library := range libraries {
			flag := ""
			if library.ReadOnly {
				flag = " (read-only)"
			}
			fmt.Printf("%s%s\tmodified %s\n", library.Name, flag, library.Modified.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

var libraryRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return store.RenameLibrary(args[0], args[1])
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a library and everything it contains",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return store.RemoveLibrary(args[0])
	},
}

var libraryIconCmd = &cobra.Command{
	Use:   "icon <name> <file>",
	Short: "Replace a library's icon",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		icon, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("read icon: %w", err)
		}
		return store.ChangeIcon(args[0], icon)
	},
}

var libraryFoldersCmd = &cobra.Command{
	Use:   "folders <name>",
	Short: "List the folder paths of a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := store.LibraryFolders(args[0])
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Println(path)
		}
		return nil
	},
}

var libraryModelsCmd = &cobra.Command{
	Use:   "models <name>",
	Short: "List the models of a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objects, err := store.LibraryModels(args[0])
		if err != nil {
			return err
		}
		for _, obj := range objects {
			fmt.Printf("%s\t%s\t%s\n", obj.UUID, obj.Path, obj.Name)
		}
		return nil
	},
}

var libraryMaterialsCmd = &cobra.Command{
	Use:   "materials <name>",
	Short: "List the materials of a library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		objects, err := store.LibraryMaterials(args[0])
		if err != nil {
			return err
		}
		for _, obj := range objects {
			fmt.Printf("%s\t%s\t%s\n", obj.UUID, obj.Path, obj.Name)
		}
		return nil
	},
}
