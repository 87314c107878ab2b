package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

func newWatchCmd(a *app) *cobra.Command {
	var organizationId string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream live inbox events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireAuth(); err != nil {
				return err
			}

			if organizationId == "" {
				organizationId = a.cfg.App.OrganizationID
			}
			if organizationId == "" {
				if user := a.container.AuthService.CurrentUserValue(); user != nil {
					organizationId = user.Organization
				}
			}
			if organizationId == "" {
				return fmt.Errorf("no organization to watch, pass --organization or set ORGANIZATION_ID")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			channel := a.container.Realtime
			channel.Connect()
			if !channel.IsConnected() {
				return fmt.Errorf("could not reach %s", a.cfg.App.SocketURL)
			}
			defer channel.Disconnect()

			channel.JoinOrganization(organizationId)
			defer channel.LeaveOrganization(organizationId)

			if err := a.container.ConsumerService.Start(ctx); err != nil {
				return err
			}

			status := channel.ConnectionStatus()
			defer status.Unsubscribe()
			notifications := a.container.ConsumerService.SubscribeNotifications()
			defer notifications.Unsubscribe()
			newInteractions := channel.OnNewInteraction()
			defer newInteractions.Unsubscribe()
			updated := channel.OnInteractionUpdated()
			defer updated.Unsubscribe()

			interrupt := make(chan os.Signal, 1)
			signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

			color.Cyan("Watching organization %s (ctrl-c to stop)", organizationId)
			for {
				select {
				case <-interrupt:
					return nil
				case connected := <-status.C():
					if connected {
						color.Green("connected")
					} else {
						color.Red("disconnected")
					}
				case data := <-newInteractions.C():
					printEvent("new", data)
				case data := <-updated.C():
					printEvent("updated", data)
				case notification := <-notifications.C():
					if notification != nil {
						color.Yellow("notification [%s] %s: %s",
							notification.Type, notification.Title, notification.Message)
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&organizationId, "organization", "", "organization id to watch")
	return cmd
}

func printEvent(kind string, data json.RawMessage) {
	var interaction model.Interaction
	if err := json.Unmarshal(data, &interaction); err != nil {
		fmt.Printf("%s interaction: %s\n", kind, string(data))
		return
	}
	fmt.Printf("%s interaction ", kind)
	printInteraction(&interaction)
}
