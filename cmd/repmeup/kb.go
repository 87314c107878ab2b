package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
	"github.com/Mohd-umair/repmeup-frontend/internal/service"
)

func printEntry(entry *model.KnowledgeEntry) {
	bold := color.New(color.Bold)
	bold.Printf("%s", entry.Title)
	fmt.Printf("  (%s, %s)\n", entry.Source, entry.Category)
	fmt.Printf("  id:       %s\n", entry.Id)
	fmt.Printf("  priority: %d  active: %v  used: %d times\n", entry.Priority, entry.IsActive, entry.UsageCount)
	if len(entry.Tags) > 0 {
		fmt.Printf("  tags:     %v\n", entry.Tags)
	}
}

func newKbCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: "Knowledge base management",
	}
	cmd.AddCommand(
		newKbListCmd(a),
		newKbShowCmd(a),
		newKbAddCmd(a),
		newKbAddPDFCmd(a),
		newKbAddURLCmd(a),
		newKbUpdateCmd(a),
		newKbDeleteCmd(a),
		newKbCategoriesCmd(a),
	)
	return cmd
}

func newKbListCmd(a *app) *cobra.Command {
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List knowledge entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			data, err := a.container.KnowledgeBaseService.List(cmd.Context(), service.ListPage(page, limit))
			if err != nil {
				return err
			}
			if len(data.Entries) == 0 {
				fmt.Println("No knowledge entries.")
				return nil
			}
			for i := range data.Entries {
				printEntry(&data.Entries[i])
			}
			fmt.Printf("page %d/%d (%d total)\n", data.Pagination.Page, data.Pagination.Pages, data.Pagination.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "entries per page")
	return cmd
}

func newKbShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one knowledge entry with its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			entry, err := a.container.KnowledgeBaseService.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printEntry(entry)
			fmt.Println()
			fmt.Println(entry.Content)
			return nil
		},
	}
}

func newKbAddCmd(a *app) *cobra.Command {
	var req dto.CreateManualRequest
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a manual knowledge entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			entry, err := a.container.KnowledgeBaseService.CreateManual(cmd.Context(), &req)
			if err != nil {
				return err
			}
			color.Green("Created %s", entry.Id)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "entry title")
	cmd.Flags().StringVar(&req.Content, "content", "", "entry body")
	cmd.Flags().StringVar(&req.Category, "category", "", "entry category")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "entry tags (repeatable)")
	cmd.Flags().IntVar(&req.Priority, "priority", 0, "retrieval priority 0-10")
	return cmd
}

func newKbAddPDFCmd(a *app) *cobra.Command {
	var title, category string
	cmd := &cobra.Command{
		Use:   "add-pdf <file>",
		Short: "Upload a PDF as a knowledge source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			if title == "" {
				title = filepath.Base(args[0])
			}
			entry, err := a.container.KnowledgeBaseService.CreateFromPDF(
				cmd.Context(), title, category, filepath.Base(args[0]), file)
			if err != nil {
				return err
			}
			color.Green("Uploaded %s", entry.Id)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "entry title (defaults to file name)")
	cmd.Flags().StringVar(&category, "category", "", "entry category")
	return cmd
}

func newKbAddURLCmd(a *app) *cobra.Command {
	var req dto.CreateFromURLRequest
	cmd := &cobra.Command{
		Use:   "add-url <url>",
		Short: "Ingest a web page as a knowledge source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			req.URL = args[0]
			entry, err := a.container.KnowledgeBaseService.CreateFromURL(cmd.Context(), &req)
			if err != nil {
				return err
			}
			color.Green("Queued %s", entry.Id)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Category, "category", "", "entry category")
	return cmd
}

func newKbUpdateCmd(a *app) *cobra.Command {
	var req dto.UpdateKnowledgeRequest
	var priority int
	var active bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a knowledge entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if cmd.Flags().Changed("priority") {
				req.Priority = &priority
			}
			if cmd.Flags().Changed("active") {
				req.IsActive = &active
			}
			entry, err := a.container.KnowledgeBaseService.Update(cmd.Context(), args[0], &req)
			if err != nil {
				return err
			}
			color.Green("Updated %s", entry.Id)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "new title")
	cmd.Flags().StringVar(&req.Content, "content", "", "new body")
	cmd.Flags().StringVar(&req.Category, "category", "", "new category")
	cmd.Flags().StringSliceVar(&req.Tags, "tag", nil, "replacement tags (repeatable)")
	cmd.Flags().IntVar(&priority, "priority", 0, "retrieval priority 0-10")
	cmd.Flags().BoolVar(&active, "active", true, "whether the entry is served")
	return cmd
}

func newKbDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a knowledge entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if err := a.container.KnowledgeBaseService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			color.Green("Deleted %s", args[0])
			return nil
		},
	}
}

func newKbCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories in use",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			categories, err := a.container.KnowledgeBaseService.GetCategories(cmd.Context())
			if err != nil {
				return err
			}
			for _, category := range categories {
				fmt.Println(category)
			}
			return nil
		},
	}
}
