package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fabvote/fabvote-gateway"
	"github.com/fabvote/fabvote-gateway/client"
)

var (
	endpoint string
	timeout  time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fabvotectl",
		Short:        "Command line client for the fabvote gateway",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "http://localhost:3000", "gateway base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "request timeout")

	rootCmd.AddCommand(
		helloCmd(),
		registerCmd(),
		loginCmd(),
		electionsCmd(),
		candidatesCmd(),
		createElectionCmd(),
		addCandidateCmd(),
		voteCmd(),
		stopCmd(),
		resultCmd(),
		transactionsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient(cmd *cobra.Command) (*client.Client, context.Context, context.CancelFunc, error) {
	c, err := client.New(endpoint)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	return c, ctx, cancel, nil
}

func helloCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hello",
		Short: "Call SayHello on the contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			quote, err := c.Hello(ctx)
			if err != nil {
				return err
			}
			fabvote.JsonPrint("hello", quote)
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	var req fabvote.RegisterUserRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a voter",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			status, err := c.RegisterUser(ctx, req)
			if err != nil {
				return err
			}
			fabvote.JsonPrint("register", status)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "voter name")
	cmd.Flags().StringVar(&req.Email, "email", "", "voter email")
	cmd.Flags().StringVar(&req.Password, "password", "", "voter password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func loginCmd() *cobra.Command {
	var req fabvote.LoginUserRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check credentials and print the user record",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			user, err := c.Login(ctx, req)
			if err != nil {
				return err
			}
			fabvote.JsonPrint("user", user)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "voter email")
	cmd.Flags().StringVar(&req.Password, "password", "", "voter password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func electionsCmd() *cobra.Command {
	var doctype string
	cmd := &cobra.Command{
		Use:   "elections",
		Short: "List elections",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			elections, err := c.ShowAllElections(ctx, doctype)
			if err != nil {
				return err
			}
			fabvote.JsonPrint("elections", elections)
			return nil
		},
	}
	cmd.Flags().StringVar(&doctype, "doctype", "election", "document type")
	return cmd
}

func candidatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "candidates <electionid>",
		Short: "List the candidates of an election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			candidates, err := c.ShowAllCandidates(ctx, args[0])
			if err != nil {
				return err
			}
			fabvote.JsonPrint("candidates", candidates)
			return nil
		},
	}
}

func createElectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-election <id> <name>",
		Short: "Create an election",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			msg, err := c.CreateElection(ctx, fabvote.CreateElectionRequest{ID: args[0], Name: args[1]})
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func addCandidateCmd() *cobra.Command {
	var req fabvote.AddCandidateRequest
	cmd := &cobra.Command{
		Use:   "add-candidate <id> <name>",
		Short: "Add a candidate to an election",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			req.ID, req.Name = args[0], args[1]
			msg, err := c.AddCandidate(ctx, req)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Marka, "marka", "", "candidate symbol")
	cmd.Flags().StringVar(&req.ElectionID, "election", "", "election id")
	cmd.MarkFlagRequired("election")
	return cmd
}

// voteCmd logs in and votes in one go; the session cookie only lives in
// the client's jar.
func voteCmd() *cobra.Command {
	var login fabvote.LoginUserRequest
	cmd := &cobra.Command{
		Use:   "vote <electionid> <candidateid>",
		Short: "Log in and cast a vote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			_, err = c.Login(ctx, login)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			status, err := c.VoteCasting(ctx, fabvote.VoteCastingRequest{ElectionID: args[0], CandidateID: args[1]})
			if err != nil {
				return err
			}
			fabvote.JsonPrint("vote", status)
			return nil
		},
	}
	cmd.Flags().StringVar(&login.Email, "email", "", "voter email")
	cmd.Flags().StringVar(&login.Password, "password", "", "voter password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <electionid>",
		Short: "Stop an election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			msg, err := c.StopElection(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func resultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "result <electionid>",
		Short: "Tally an election",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			results, err := c.CalculateResult(ctx, args[0])
			if err != nil {
				return err
			}
			fabvote.JsonPrint("result", results)
			return nil
		},
	}
}

func transactionsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List recent ledger invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ctx, cancel, err := newClient(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			entries, err := c.Transactions(ctx, limit)
			if err != nil {
				return err
			}
			fabvote.JsonPrint("transactions", entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries")
	return cmd
}
