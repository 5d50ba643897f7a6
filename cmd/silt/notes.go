package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newService(ctx)
		if err != nil {
			fatal("Failed to initialize silt", err)
		}

		notes, err := svc.ListNotes()
		if err != nil {
			fatal("Failed to list notes", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(notes); err != nil {
				fatal("Failed to encode JSON", err)
			}
			return
		}

		for _, n := range notes {
			fmt.Printf("%s  %s\n", n.ID, n.Text)
		}
	},
}

var addCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newService(ctx)
		if err != nil {
			fatal("Failed to initialize silt", err)
		}

		n, err := svc.AddNote(ctx, args[0])
		if err != nil {
			fatal("Failed to add note", err)
		}
		fmt.Printf("Note added: %s\n", n.ID)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [id] [text]",
	Short: "Replace a note's text",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newService(ctx)
		if err != nil {
			fatal("Failed to initialize silt", err)
		}

		n, err := svc.EditNote(ctx, args[0], args[1])
		if err != nil {
			fatal("Failed to edit note", err)
		}
		fmt.Printf("Note updated: %s\n", n.ID)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc, err := newService(ctx)
		if err != nil {
			fatal("Failed to initialize silt", err)
		}

		if err := svc.DeleteNote(ctx, args[0]); err != nil {
			fatal("Failed to delete note", err)
		}
		fmt.Printf("Note deleted: %s\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(listCmd, addCmd, editCmd, rmCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
