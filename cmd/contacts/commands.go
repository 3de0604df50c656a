package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/DeBrosOfficial/contacts/pkg/backend/rqlite"
	"github.com/DeBrosOfficial/contacts/pkg/config"
)

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut}
}

// newRootCmd builds the command tree over a. The caller closes a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "contacts",
		Short: "Manage contact records and accounts on the configured backend",
		Long: `Manage contact records and accounts on the configured backend.

Configuration is read from --config, ./contacts.yaml or ~/.contacts/contacts.yaml,
then overridden by CONTACTS_* environment variables.

Examples:
  contacts insert --data '{"name":"Ada","email":"ada@example.com"}'
  contacts list --page 2 --page-size 20
  contacts get 6f1c...
  contacts signup --email ada@example.com --password correct-horse`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the YAML config file")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored log output")

	root.AddCommand(
		newInsertCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newSignUpCmd(a),
		newSignInCmd(a),
		newMigrateCmd(a),
		newVersionCmd(a),
	)
	return root
}

// --- records ---

func newInsertCmd(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert a contact and print the stored row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := parseObject("data", data)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("--data is required")
			}
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			rows := svc.Insert(cmd.Context(), record)
			if rows == nil {
				return errNoResult
			}
			return printJSON(a.out, rows)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", `contact fields as a JSON object, e.g. '{"name":"Ada"}'`)
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			p := svc.ListPage(cmd.Context(), page, pageSize)
			if p == nil {
				return errNoResult
			}
			return printJSON(a.out, p)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "contacts per page")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			row := svc.GetByID(cmd.Context(), args[0])
			if row == nil {
				return errNoResult
			}
			return printJSON(a.out, row)
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Apply a partial update to one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := parseObject("data", data)
			if err != nil {
				return err
			}
			if len(patch) == 0 {
				return fmt.Errorf("--data must contain at least one field")
			}
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			row := svc.Update(cmd.Context(), args[0], patch)
			if row == nil {
				return errNoResult
			}
			return printJSON(a.out, row)
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "fields to change as a JSON object")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			if !svc.Delete(cmd.Context(), args[0]) {
				return errNoResult
			}
			printSuccess(a.errOut, "Deleted %s", args[0])
			return printJSON(a.out, map[string]any{"id": args[0], "deleted": true})
		},
	}
}

// --- accounts ---

func newSignUpCmd(a *app) *cobra.Command {
	var email, password, metadata string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := parseObject("metadata", metadata)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			user := svc.CreateAccount(cmd.Context(), email, password, meta)
			if user == nil {
				return errNoResult
			}
			return printJSON(a.out, user)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&metadata, "metadata", "", "user metadata as a JSON object")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newSignInCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and print the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd)
			if err != nil {
				return err
			}
			session := svc.SignIn(cmd.Context(), email, password)
			if session == nil {
				return errNoResult
			}
			return printJSON(a.out, session)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// --- maintenance ---

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the schema on an rqlite or sqlite backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch a.cfg.Backend.Provider {
			case config.ProviderRQLite, config.ProviderSQLite:
			default:
				return fmt.Errorf("migrate needs backend.provider rqlite or sqlite; got %q", a.cfg.Backend.Provider)
			}
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}
			sqlClient, ok := a.svc.Client().(*rqlite.Client)
			if !ok {
				return fmt.Errorf("backend does not support migrations")
			}
			if err := sqlClient.Migrate(cmd.Context()); err != nil {
				return err
			}
			printSuccess(a.errOut, "Schema up to date")
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(a.out, "contacts %s\n", version)
			return err
		},
	}
}
