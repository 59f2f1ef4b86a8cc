package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gatebot/internal/config"
	"gatebot/internal/domain"
	"gatebot/internal/repository"
	"gatebot/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	usersJSON     bool
	usersStartTTL time.Duration
)

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd)
	usersListCmd.Flags().BoolVar(&usersJSON, "json", false, "Print JSON instead of a table")
	usersListCmd.Flags().DurationVar(&usersStartTTL, "start-ttl", 0, "Report starts older than this as expired")
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Inspect persisted users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every persisted user with its membership status",
	Args:  cobra.NoArgs,
	RunE:  runUsersList,
}

// userRow is one line of `users list` output
type userRow struct {
	UserID    int64                   `json:"user_id"`
	Status    domain.MembershipStatus `json:"status"`
	Reason    string                  `json:"reason,omitempty"`
	StartedAt time.Time               `json:"started_at"`
	LastSeen  time.Time               `json:"last_seen"`
	Flags     []string                `json:"flags"`
}

func runUsersList(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadStore()
	if err != nil {
		return err
	}
	if cfg.StoreBackend == config.StoreMemory {
		return fmt.Errorf("the %s backend keeps nothing to list", config.StoreMemory)
	}

	logger := newLogger()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	store, err := repository.Open(ctx, cfg, repository.OpenOptions{}, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := listUsers(ctx, store.Repo, usersStartTTL, logger)
	if err != nil {
		return err
	}
	return printUsers(cmd.OutOrStdout(), rows, usersJSON)
}

// listUsers loads a read-only oracle over repo and classifies every record
func listUsers(ctx context.Context, repo repository.UserRepository, ttl time.Duration, logger *zap.Logger) ([]userRow, error) {
	oracle := service.NewOracle(logger, service.WithRepository(repo), service.WithStartTTL(ttl))
	if err := oracle.Load(ctx); err != nil {
		return nil, err
	}

	users := oracle.Snapshot()
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		m := oracle.StatusOf(u)
		flags := u.Flags
		if flags == nil {
			flags = []string{}
		}
		rows = append(rows, userRow{
			UserID:    u.UserID,
			Status:    m.Status,
			Reason:    m.Reason,
			StartedAt: u.StartedAt,
			LastSeen:  u.LastSeen,
			Flags:     flags,
		})
	}
	return rows, nil
}

func printUsers(w io.Writer, rows []userRow, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USER_ID\tSTATUS\tSTARTED_AT\tLAST_SEEN\tREASON")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.UserID,
			r.Status,
			r.StartedAt.Format(time.RFC3339),
			r.LastSeen.Format(time.RFC3339),
			r.Reason,
		)
	}
	return tw.Flush()
}
