package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/state"
)

var (
	notificationKind string
	userName         string
	userEmail        string
	userAvatar       string
)

// stateCmd groups the local client state commands
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and change local state",
	Long: `Inspect and change the locally persisted state: theme preference, recent
searches, notifications and the signed-in user mirror.`,
}

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|cinema|cinema-dark|system|toggle]",
	Short: "Show or change the theme",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if len(args) == 1 {
			if args[0] == "toggle" {
				if _, err := app.theme.Toggle(ctx); err != nil {
					return err
				}
			} else {
				theme, err := state.ParseTheme(args[0])
				if err != nil {
					return err
				}
				if err := app.theme.Set(ctx, theme); err != nil {
					return err
				}
			}
		}

		out := struct {
			Theme state.Theme `json:"theme"`
			Dark  bool        `json:"dark"`
		}{app.theme.Theme(), app.theme.IsDark()}
		return render(cmd.OutOrStdout(), out, func(w io.Writer) {
			mode := "light"
			if out.Dark {
				mode = "dark"
			}
			fmt.Fprintf(w, "Theme: %s (%s)\n", out.Theme, mode)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		recent := app.searches.Recent()
		return render(cmd.OutOrStdout(), recent, func(w io.Writer) {
			if len(recent) == 0 {
				fmt.Fprintln(w, "No recent searches.")
				return
			}
			for i, q := range recent {
				fmt.Fprintf(w, "%-4d %s\n", i+1, q)
			}
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.searches.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Search history cleared")
		return nil
	},
}

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notes"},
	Short:   "Show the most recent notifications",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		visible := app.notifications.Visible()
		total := len(app.notifications.All())
		return render(cmd.OutOrStdout(), visible, func(w io.Writer) {
			if len(visible) == 0 {
				fmt.Fprintln(w, "No notifications.")
				return
			}
			for _, n := range visible {
				fmt.Fprintf(w, "[%s] %s  %s\n", n.Kind, n.Title, n.CreatedAt.Format("2006-01-02 15:04"))
				if n.Message != "" {
					fmt.Fprintf(w, "    %s\n", n.Message)
				}
				fmt.Fprintf(w, "    id: %s\n", n.ID)
			}
			if hidden := total - len(visible); hidden > 0 {
				fmt.Fprintf(w, "(%d older)\n", hidden)
			}
		})
	},
}

var notifyCmd = &cobra.Command{
	Use:   "push <title> [message]",
	Short: "Add a notification",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := state.ParseKind(notificationKind)
		if err != nil {
			return err
		}
		var message string
		if len(args) == 2 {
			message = args[1]
		}

		n, err := app.notifications.Push(cmd.Context(), kind, args[0], message)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), n, func(w io.Writer) {
			fmt.Fprintf(w, "✓ Added %s notification %s\n", n.Kind, n.ID)
		})
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss a notification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		found, err := app.notifications.Dismiss(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("notification %s not found", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Dismissed")
		return nil
	},
}

var notificationsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Dismiss every notification",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.notifications.Clear(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Notifications cleared")
		return nil
	},
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Show the signed-in user mirror",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, ok := app.user.Current()
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		}
		return render(cmd.OutOrStdout(), user, func(w io.Writer) {
			fmt.Fprintf(w, "%s <%s>\n", user.DisplayName, user.Email)
			rule(w)
			fmt.Fprintf(w, "Watchlist: %d movies\n", len(user.Watchlist))
			fmt.Fprintf(w, "Favorites: %d movies\n", len(user.Favorites))
			fmt.Fprintf(w, "Ratings:   %d movies\n", len(user.Ratings))
		})
	},
}

var signInCmd = &cobra.Command{
	Use:   "sign-in <id>",
	Short: "Replace the local user mirror",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := app.user.SignIn(cmd.Context(), state.UserMirror{
			ID:          args[0],
			DisplayName: userName,
			Email:       userEmail,
			AvatarURL:   userAvatar,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Signed in as %s\n", args[0])
		return nil
	},
}

var signOutCmd = &cobra.Command{
	Use:   "sign-out",
	Short: "Forget the local user mirror",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.user.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
		return nil
	},
}

var watchlistCmd = &cobra.Command{
	Use:   "watchlist <add|remove> <movie-id>",
	Short: "Add or remove a movie from the watchlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := movieIDArg(args[1])
		if err != nil {
			return err
		}

		switch args[0] {
		case "add":
			err = app.user.AddToWatchlist(cmd.Context(), id)
		case "remove", "rm":
			err = app.user.RemoveFromWatchlist(cmd.Context(), id)
		default:
			return fmt.Errorf("unknown watchlist action: %s (must be 'add' or 'remove')", args[0])
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Watchlist updated")
		return nil
	},
}

var favoriteCmd = &cobra.Command{
	Use:   "favorite <movie-id>",
	Short: "Toggle a favorite movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := movieIDArg(args[0])
		if err != nil {
			return err
		}
		favorite, err := app.user.ToggleFavorite(cmd.Context(), id)
		if err != nil {
			return err
		}
		if favorite {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Added to favorites")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Removed from favorites")
		}
		return nil
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate <movie-id> <score>",
	Short: "Rate a movie from 0 to 10 (0 clears the rating)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := movieIDArg(args[0])
		if err != nil {
			return err
		}
		score, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid score: %s", args[1])
		}
		if err := app.user.Rate(cmd.Context(), id, score); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Rating saved")
		return nil
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired persisted entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := state.Sweep(cmd.Context(), logger, app.searches, app.cache)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d expired entries\n", removed)
		return nil
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List persisted state keys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := app.store.Keys(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), keys, func(w io.Writer) {
			for _, k := range keys {
				fmt.Fprintln(w, k)
			}
		})
	},
}

func init() {
	notifyCmd.Flags().StringVarP(&notificationKind, "kind", "k", string(state.KindInfo), "notification kind (info, success, warning, error)")
	signInCmd.Flags().StringVar(&userName, "name", "", "display name")
	signInCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	signInCmd.Flags().StringVar(&userAvatar, "avatar", "", "avatar URL")

	historyCmd.AddCommand(historyClearCmd)
	notificationsCmd.AddCommand(notifyCmd, dismissCmd, notificationsClearCmd)
	userCmd.AddCommand(signInCmd, signOutCmd, watchlistCmd, favoriteCmd, rateCmd)
	stateCmd.AddCommand(themeCmd, historyCmd, notificationsCmd, userCmd, sweepCmd, keysCmd)
	rootCmd.AddCommand(stateCmd)
}

func movieIDArg(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id: %s", s)
	}
	return id, nil
}
