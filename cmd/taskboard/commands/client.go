package commands

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskboard/core/internal/adapters/collection"
	"github.com/taskboard/core/internal/application/services"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// NewBoardCommand creates the board command
func NewBoardCommand() *cobra.Command {
	boardCmd := &cobra.Command{
		Use:   "board",
		Short: "Print the kanban board",
		Long:  "Load the task collection from the configured variant and print it as status columns",
		Run: func(cmd *cobra.Command, args []string) {
			search, _ := cmd.Flags().GetString("search")
			printBoard(credentialsFromFlags(cmd), search)
		},
	}

	boardCmd.Flags().String("search", "", "Filter tasks by title or description substring")
	addCredentialFlags(boardCmd)
	return boardCmd
}

// NewCalendarCommand creates the calendar command
func NewCalendarCommand() *cobra.Command {
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "Print the current month's calendar",
		Long:  "Load the task collection and print the six-week month grid with due-date markers",
		Run: func(cmd *cobra.Command, args []string) {
			printCalendar(credentialsFromFlags(cmd))
		},
	}

	addCredentialFlags(calendarCmd)
	return calendarCmd
}

type credentials struct {
	email    string
	password string
}

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "Account email (remote variant only)")
	cmd.Flags().String("password", "", "Account password (remote variant only)")
}

func credentialsFromFlags(cmd *cobra.Command) credentials {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	return credentials{email: email, password: password}
}

func newClientStore(creds credentials) *services.TaskStore {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	session := collection.NewMemorySession()

	if cfg.Collection.Variant == config.CollectionVariantRemote && creds.email != "" {
		authClient := collection.NewAuthClient(cfg.Collection.APIBaseURL, cfg.Collection.APITimeout, session, appLogger)
		loginCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := authClient.Login(loginCtx, ports.LoginRequest{Email: creds.email, Password: creds.password}); err != nil {
			log.Fatalf("Login failed: %v", err)
		}
	}

	adapter, err := collection.New(cfg, session, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize collection store: %v", err)
	}

	notifier := services.NewNotificationCenter(services.DefaultNotificationTTL)
	store := services.NewTaskStore(adapter, notifier, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := store.Load(ctx); err != nil {
		log.Fatalf("Failed to load tasks: %v", err)
	}

	return store
}

func printBoard(creds credentials, search string) {
	store := newClientStore(creds)
	records := store.View(ports.ViewFilter{Search: search})

	for _, col := range services.ProjectBoard(records) {
		fmt.Printf("%s (%d)\n", col.Title, len(col.Tasks))
		for _, task := range col.Tasks {
			line := "  - " + task.Title
			if task.DueDate != nil {
				line += " [due " + task.DueDate.Format("2006-01-02") + "]"
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
}

func printCalendar(creds credentials) {
	store := newClientStore(creds)
	records := store.View(ports.ViewFilter{})

	now := time.Now()
	cells := services.ProjectCalendar(records, now.Year(), now.Month(), now)

	fmt.Printf("%s %d\n", now.Month(), now.Year())
	fmt.Println("Sun  Mon  Tue  Wed  Thu  Fri  Sat")

	var row strings.Builder
	for i, cell := range cells {
		day := fmt.Sprintf("%2d", cell.Date.Day())
		switch {
		case !cell.InMonth:
			day = "  "
		case cell.Overdue:
			day += "!"
		case cell.HasTasks():
			day += "*"
		}
		row.WriteString(fmt.Sprintf("%-5s", day))

		if (i+1)%7 == 0 {
			fmt.Println(strings.TrimRight(row.String(), " "))
			row.Reset()
		}
	}
}
