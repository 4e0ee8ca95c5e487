package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mmcdole/iplay/internal/config"
	"github.com/mmcdole/iplay/internal/domain"
	"github.com/mmcdole/iplay/internal/engine"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an Emby server and make it active",
	Long: `Log in with a username and password. The server defaults to the
one in the config file; flags override it.

Examples:
  iplay login --host 192.168.1.10
  iplay login --host media.example.com --protocol https --port 443 --user alice`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List known sites",
	Args:  cobra.NoArgs,
	RunE:  runSites,
}

var switchCmd = &cobra.Command{
	Use:   "switch <site>",
	Short: "Make a known site active (id, user@host, or fuzzy match)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSwitch,
}

var removeCmd = &cobra.Command{
	Use:   "remove <site>",
	Short: "Forget a known site (id or fuzzy name)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(loginCmd, sitesCmd, switchCmd, removeCmd)

	loginCmd.Flags().String("host", "", "Server host")
	loginCmd.Flags().Int("port", 0, "Server port")
	loginCmd.Flags().String("protocol", "", "http or https")
	loginCmd.Flags().String("path", "", "Reverse-proxy path prefix")
	loginCmd.Flags().StringP("user", "u", "", "Username (prompted when empty)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	server := current.cfg.Server
	if v, _ := cmd.Flags().GetString("host"); v != "" {
		server.Host = v
	}
	if v, _ := cmd.Flags().GetInt("port"); v != 0 {
		server.Port = v
	}
	if v, _ := cmd.Flags().GetString("protocol"); v != "" {
		server.Protocol = v
	}
	if v, _ := cmd.Flags().GetString("path"); v != "" {
		server.Path = v
	}
	if server.Host == "" {
		return errors.New("no server host: pass --host or set server.host in the config")
	}

	info, err := current.connector.Probe(cmd.Context(), server.Endpoint())
	if err != nil {
		return fmt.Errorf("%s: %s", server.Endpoint().BaseURL(), domain.UserMessage(err))
	}
	fmt.Printf("Server: %s (Emby %s)\n", info.ServerName, info.Version)

	reader := bufio.NewReader(os.Stdin)
	username, _ := cmd.Flags().GetString("user")
	if username == "" {
		fmt.Print("Username: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
		username = strings.TrimSpace(line)
	}

	// Prompt for password (hidden input)
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	site, err := current.engine.Login(cmd.Context(), username, string(passwordBytes), server.Endpoint(), &engine.Callback{
		Resolve: func(s *domain.Site) { fmt.Printf("✓ Logged in to %s (%s)\n", s.DisplayName(), s.ID) },
		Reject:  func(err error) { fmt.Printf("✗ %s\n", domain.UserMessage(err)) },
	})
	if err != nil {
		return err
	}

	current.cfg.Server = server
	if err := config.SaveConfig(current.cfg); err != nil {
		current.logger.Warn("failed to save config", "error", err)
	}

	if jsonOutput {
		return printJSON(site)
	}
	return nil
}

func runSites(cmd *cobra.Command, args []string) error {
	sites := current.engine.Session().Sites()
	active := current.engine.Session().Active()

	if jsonOutput {
		return printJSON(map[string]any{"active": active, "sites": sites})
	}

	if len(sites) == 0 {
		fmt.Println("No known sites. Run 'iplay login' first.")
		return nil
	}
	for _, s := range sites {
		marker := " "
		if active != nil && active.ID == s.ID {
			marker = "*"
		}
		fmt.Printf("%s %-36s  %-30s  %s\n", marker, s.ID, s.DisplayName(), s.Server.BaseURL())
	}
	return nil
}

func runSwitch(cmd *cobra.Command, args []string) error {
	target, ok := current.engine.Session().Lookup(args[0])
	if !ok {
		return fmt.Errorf("no known site matches %q", args[0])
	}

	site, err := current.engine.Switch(cmd.Context(), target.ID)
	if err != nil {
		return err
	}
	if site == nil {
		return fmt.Errorf("site %s is no longer known", target.ID)
	}

	if jsonOutput {
		return printJSON(site)
	}
	fmt.Printf("✓ Switched to %s (%s)\n", site.DisplayName(), site.ID)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	target, ok := current.engine.Session().Lookup(args[0])
	if !ok {
		return fmt.Errorf("no known site matches %q", args[0])
	}

	removed, err := current.engine.Remove(cmd.Context(), target.ID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("site %s is no longer known", target.ID)
	}
	fmt.Printf("Removed %s (%s)\n", target.DisplayName(), target.ID)
	return nil
}
