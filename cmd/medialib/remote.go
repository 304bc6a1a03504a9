package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// RemotesConfig is the on-disk list of server profiles.
type RemotesConfig struct {
	Active  string            `toml:"active"`
	Remotes map[string]Remote `toml:"remotes"`
}

// Remote is a named server profile. TimeZone and DateLayout set how the CLI
// renders filter dates when talking to this server.
type Remote struct {
	URL        string `toml:"url"`
	Token      string `toml:"token,omitempty"`
	NATSURL    string `toml:"nats_url,omitempty"`
	TimeZone   string `toml:"tz,omitempty"`
	DateLayout string `toml:"date_layout,omitempty"`
}

// lookup returns the named remote, or the active one when name is empty.
func (c RemotesConfig) lookup(name string) (string, Remote, error) {
	if name == "" {
		name = c.Active
	}
	if name == "" {
		return "", Remote{}, fmt.Errorf("no active remote; specify a name or run 'medialib remote use <name>'")
	}
	r, ok := c.Remotes[name]
	if !ok {
		return "", Remote{}, fmt.Errorf("remote %q not found", name)
	}
	return name, r, nil
}

func (r Remote) validate() error {
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("remote url %q must be an http(s) URL", r.URL)
	}
	if r.TimeZone != "" {
		if _, err := time.LoadLocation(r.TimeZone); err != nil {
			return fmt.Errorf("unknown time zone %q", r.TimeZone)
		}
	}
	return nil
}

func remoteConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".local", "state", "medialib")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "remotes.toml"), nil
}

func loadRemotesConfig() (RemotesConfig, error) {
	cfg := RemotesConfig{}
	path, err := remoteConfigPath()
	if err != nil {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return RemotesConfig{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if cfg.Remotes == nil {
		cfg.Remotes = map[string]Remote{}
	}
	return cfg, nil
}

// saveRemotesConfig writes the file owner-only since it holds tokens.
func saveRemotesConfig(cfg RemotesConfig) error {
	path, err := remoteConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// updateRemotes loads the config, applies fn and saves the result.
func updateRemotes(fn func(*RemotesConfig) error) error {
	cfg, err := loadRemotesConfig()
	if err != nil {
		return err
	}
	if err := fn(&cfg); err != nil {
		return err
	}
	return saveRemotesConfig(cfg)
}

var (
	remoteOnce   sync.Once
	activeRemote Remote
)

// currentRemote returns the active profile, read once per process. A
// missing or unreadable file yields the zero Remote.
func currentRemote() Remote {
	remoteOnce.Do(func() {
		cfg, err := loadRemotesConfig()
		if err != nil {
			return
		}
		if _, r, err := cfg.lookup(""); err == nil {
			activeRemote = r
		}
	})
	return activeRemote
}

func maskToken(token string) string {
	if len(token) > 8 {
		return token[:8] + strings.Repeat("*", len(token)-8)
	}
	return token
}

func printRemote(out io.Writer, name string, r Remote, active bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	suffix := ""
	if active {
		suffix = " (active)"
	}
	fmt.Fprintf(w, "name:\t%s%s\n", name, suffix)
	fmt.Fprintf(w, "url:\t%s\n", r.URL)
	for _, kv := range [][2]string{
		{"token", maskToken(r.Token)},
		{"nats_url", r.NATSURL},
		{"tz", r.TimeZone},
		{"date_layout", r.DateLayout},
	} {
		if kv[1] != "" {
			fmt.Fprintf(w, "%s:\t%s\n", kv[0], kv[1])
		}
	}
	return w.Flush()
}

var remoteCmd = &cobra.Command{
	Use:     "remote",
	Short:   "Manage named server remotes",
	GroupID: "system",
}

var remoteAddCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Add or update a named remote",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		r := Remote{URL: strings.TrimRight(args[1], "/")}
		r.Token, _ = cmd.Flags().GetString("token")
		r.NATSURL, _ = cmd.Flags().GetString("nats")
		r.TimeZone, _ = cmd.Flags().GetString("tz")
		r.DateLayout, _ = cmd.Flags().GetString("date-layout")
		if err := r.validate(); err != nil {
			return err
		}

		if err := updateRemotes(func(cfg *RemotesConfig) error {
			cfg.Remotes[name] = r
			return nil
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q added (%s)\n", name, r.URL)
		return nil
	},
}

var remoteRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a named remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := updateRemotes(func(cfg *RemotesConfig) error {
			if _, _, err := cfg.lookup(name); err != nil {
				return err
			}
			delete(cfg.Remotes, name)
			if cfg.Active == name {
				cfg.Active = ""
			}
			return nil
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "remote %q removed\n", name)
		return nil
	},
}

var remoteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all remotes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRemotesConfig()
		if err != nil {
			return err
		}
		if len(cfg.Remotes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no remotes configured")
			return nil
		}

		names := make([]string, 0, len(cfg.Remotes))
		for name := range cfg.Remotes {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tURL\tTOKEN\tTZ")
		for _, name := range names {
			r := cfg.Remotes[name]
			marker := "  "
			if name == cfg.Active {
				marker = "* "
			}
			tz := r.TimeZone
			if tz == "" {
				tz = "UTC"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", marker, name, r.URL, maskToken(r.Token), tz)
		}
		return w.Flush()
	},
}

var remoteUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := updateRemotes(func(cfg *RemotesConfig) error {
			if _, _, err := cfg.lookup(name); err != nil {
				return err
			}
			cfg.Active = name
			return nil
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "active remote set to %q\n", name)
		return nil
	},
}

var remoteShowCmd = &cobra.Command{
	Use:   "show [<name>]",
	Short: "Show details for a remote (defaults to active)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadRemotesConfig()
		if err != nil {
			return err
		}
		var name string
		if len(args) == 1 {
			name = args[0]
		}
		name, r, err := cfg.lookup(name)
		if err != nil {
			return err
		}
		return printRemote(cmd.OutOrStdout(), name, r, name == cfg.Active)
	},
}

func init() {
	remoteAddCmd.Flags().String("token", "", "bearer token for authentication")
	remoteAddCmd.Flags().String("nats", "", "NATS URL for event streaming")
	remoteAddCmd.Flags().String("tz", "", "IANA time zone for rendering filter dates")
	remoteAddCmd.Flags().String("date-layout", "", "Go time layout for rendering filter dates")

	remoteCmd.AddCommand(remoteAddCmd)
	remoteCmd.AddCommand(remoteRemoveCmd)
	remoteCmd.AddCommand(remoteListCmd)
	remoteCmd.AddCommand(remoteUseCmd)
	remoteCmd.AddCommand(remoteShowCmd)
}
