package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

var sentimentColors = map[model.Sentiment]*color.Color{
	model.SentimentPositive: color.New(color.FgGreen),
	model.SentimentNeutral:  color.New(color.FgWhite),
	model.SentimentNegative: color.New(color.FgRed),
}

func printInteraction(interaction *model.Interaction) {
	c, ok := sentimentColors[interaction.Sentiment]
	if !ok {
		c = color.New(color.FgWhite)
	}
	fmt.Printf("%s  [%s/%s]  ", interaction.Id, interaction.Platform, interaction.Type)
	c.Printf("%-8s", interaction.Sentiment)
	fmt.Printf("  %-8s  %s: %s\n", interaction.Status, interaction.Author.Name, interaction.Content)
}

func newInboxCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Unified engagement inbox",
	}
	cmd.AddCommand(
		newInboxListCmd(a),
		newInboxShowCmd(a),
		newInboxStatsCmd(a),
		newInboxReplyCmd(a),
		newInboxAssignCmd(a),
		newInboxLabelCmd(a),
		newInboxNoteCmd(a),
		newInboxStatusCmd(a),
	)
	return cmd
}

func newInboxListCmd(a *app) *cobra.Command {
	var platform, interactionType, sentiment, status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List interactions, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			filters := model.NewInboxFilters()
			if platform != "" {
				filters.Toggle(model.FilterPlatform, platform)
			}
			if interactionType != "" {
				filters.Toggle(model.FilterType, interactionType)
			}
			if sentiment != "" {
				filters.Toggle(model.FilterSentiment, sentiment)
			}
			if status != "" {
				filters.Toggle(model.FilterStatus, status)
			}

			interactions, err := a.container.InboxService.GetInteractions(cmd.Context(), filters)
			if err != nil {
				return err
			}
			if len(interactions) == 0 {
				fmt.Println("No interactions match.")
				return nil
			}
			for i := range interactions {
				printInteraction(&interactions[i])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "instagram|facebook|youtube|google|whatsapp")
	cmd.Flags().StringVar(&interactionType, "type", "", "comment|dm|review|mention")
	cmd.Flags().StringVar(&sentiment, "sentiment", "", "positive|neutral|negative")
	cmd.Flags().StringVar(&status, "status", "", "unread|read|replied|assigned|resolved")
	return cmd
}

func newInboxShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one interaction in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			interaction, err := a.container.InboxService.GetInteraction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printInteraction(interaction)
			if interaction.AssignedTo != "" {
				fmt.Printf("  assigned to: %s\n", interaction.AssignedTo)
			}
			if len(interaction.Labels) > 0 {
				fmt.Printf("  labels:      %v\n", interaction.Labels)
			}
			fmt.Printf("  created:     %s\n", interaction.CreatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newInboxStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show inbox counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			stats, err := a.container.InboxService.GetStats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("total %d  unread %d  replied %d  resolved %d\n",
				stats.Total, stats.Unread, stats.Replied, stats.Resolved)
			for sentiment, count := range stats.BySentiment {
				fmt.Printf("  %-10s %d\n", sentiment, count)
			}
			for platform, count := range stats.ByPlatform {
				fmt.Printf("  %-10s %d\n", platform, count)
			}
			return nil
		},
	}
}

func newInboxReplyCmd(a *app) *cobra.Command {
	var content, templateId string
	cmd := &cobra.Command{
		Use:   "reply <id>",
		Short: "Send a reply to an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			req := &dto.ReplyRequest{
				Content:     content,
				UseTemplate: templateId != "",
				TemplateId:  templateId,
			}
			if err := a.container.InboxService.ReplyToInteraction(cmd.Context(), args[0], req); err != nil {
				return err
			}
			color.Green("Reply sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&content, "message", "", "reply text")
	cmd.Flags().StringVar(&templateId, "template", "", "reply template id")
	return cmd
}

func newInboxAssignCmd(a *app) *cobra.Command {
	var userId, reason string
	cmd := &cobra.Command{
		Use:   "assign <id>",
		Short: "Assign an interaction to a teammate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			req := &dto.AssignRequest{UserId: userId, Reason: reason}
			if err := a.container.InboxService.AssignInteraction(cmd.Context(), args[0], req); err != nil {
				return err
			}
			color.Green("Assigned to %s", userId)
			return nil
		},
	}
	cmd.Flags().StringVar(&userId, "user", "", "assignee user id")
	cmd.Flags().StringVar(&reason, "reason", "", "assignment note")
	return cmd
}

func newInboxLabelCmd(a *app) *cobra.Command {
	var labelId string
	cmd := &cobra.Command{
		Use:   "label <id>",
		Short: "Attach a label to an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if err := a.container.InboxService.AddLabel(cmd.Context(), args[0], labelId); err != nil {
				return err
			}
			color.Green("Label added")
			return nil
		},
	}
	cmd.Flags().StringVar(&labelId, "label", "", "label id")
	return cmd
}

func newInboxNoteCmd(a *app) *cobra.Command {
	var note string
	var private bool
	cmd := &cobra.Command{
		Use:   "note <id>",
		Short: "Attach an internal note to an interaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			if err := a.container.InboxService.AddNote(cmd.Context(), args[0], note, private); err != nil {
				return err
			}
			color.Green("Note added")
			return nil
		},
	}
	cmd.Flags().StringVar(&note, "text", "", "note text")
	cmd.Flags().BoolVar(&private, "private", false, "only visible to the team")
	return cmd
}

func newInboxStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set an interaction's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}
			status := model.InteractionStatus(args[1])
			if err := a.container.InboxService.UpdateStatus(cmd.Context(), args[0], status); err != nil {
				return err
			}
			color.Green("Status set to %s", status)
			return nil
		},
	}
}
