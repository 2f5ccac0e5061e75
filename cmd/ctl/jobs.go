package main

import (
	"context"
	"fmt"

	"subtracker-be/pkg/admin/catalog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var remindDays int

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Expire subscriptions whose end date has passed",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := runTime()
		if err != nil {
			return err
		}
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		if err := c.AuditConsumer.Consume(ctx); err != nil {
			return err
		}

		expired, err := c.SubscriptionService.ExpireDue(ctx, now)
		if err != nil {
			return err
		}
		color.Green("Expired %d subscription(s)", expired)
		return nil
	},
}

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Mail renewal reminder digests",
	RunE: func(cmd *cobra.Command, args []string) error {
		now, err := runTime()
		if err != nil {
			return err
		}
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		if c.ReminderService == nil {
			return fmt.Errorf("reminders are disabled, set SMTP_HOST")
		}
		days := remindDays
		if days <= 0 {
			days = cfg.Worker.ReminderWindowDays
		}
		sent, err := c.ReminderService.SendRenewalReminders(cmd.Context(), now, days)
		if err != nil {
			return err
		}
		color.Green("Sent %d reminder digest(s) covering %d day(s)", sent, days)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter catalog into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openContainer()
		if err != nil {
			return err
		}
		defer c.Close()

		ctx := cmd.Context()
		uow := c.UowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer uow.Rollback()

		res, err := catalog.NewManager().Seed(ctx, uow, catalog.DefaultCatalog)
		if err != nil {
			return err
		}
		if res.Skipped {
			color.Yellow("Catalog already has categories, nothing seeded")
			return nil
		}
		if err := uow.Commit(); err != nil {
			return err
		}
		color.Green("Seeded %d categories, %d products, %d plans, %d prices",
			res.Categories, res.Products, res.Plans, res.Prices)
		return nil
	},
}

func init() {
	remindCmd.Flags().IntVar(&remindDays, "days", 0, "reminder window in days (default REMINDER_WINDOW_DAYS)")
}
