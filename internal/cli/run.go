package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/treenav-dev/treenav/internal/fileutil"
	"github.com/treenav-dev/treenav/internal/hierarchy"
	"github.com/treenav-dev/treenav/internal/protocol"
)

func RunInherit(cmd *cobra.Command, args []string) error {
	return runTree(cmd, args, func(s *session) hierarchy.Relation {
		relation := hierarchy.NewInheritanceRelation(s.Log)
		relation.Qualified = qualifiedFlag(cmd)
		return relation
	})
}

func RunCalls(cmd *cobra.Command, args []string) error {
	direction := protocol.CallDirectionCallers
	if callees, err := cmd.Flags().GetBool("callees"); err == nil && callees {
		direction = protocol.CallDirectionCallees
	}
	return runTree(cmd, args, func(s *session) hierarchy.Relation {
		relation := hierarchy.NewCallRelation(direction)
		relation.Qualified = qualifiedFlag(cmd)
		return relation
	})
}

func RunMembers(cmd *cobra.Command, args []string) error {
	return runTree(cmd, args, func(s *session) hierarchy.Relation {
		relation := hierarchy.NewMemberRelation()
		relation.Qualified = qualifiedFlag(cmd)
		return relation
	})
}

func RunDataFlow(cmd *cobra.Command, args []string) error {
	return runTree(cmd, args, func(s *session) hierarchy.Relation {
		return hierarchy.NewDataFlowRelation(s.Docs, s.Log)
	})
}

// runTree is the shared skeleton of the four hierarchy commands: parse the
// cursor, open a server session, reveal a root there, then either dump the
// tree to the requested depth or hand control to the interactive browser.
func runTree(cmd *cobra.Command, args []string, build func(*session) hierarchy.Relation) error {
	cursor, err := ParseCursor(args[0])
	if err != nil {
		return err
	}
	depth, err := cmd.Flags().GetInt("depth")
	if err != nil {
		return fmt.Errorf("failed to read --depth flag: %w", err)
	}
	if depth < 0 {
		return fmt.Errorf("invalid --depth %d (must be >= 0)", depth)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sess, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	relation := build(sess)
	engine := hierarchy.NewEngine(sess.Server.Client(), relation, sess.Log)

	if _, err := engine.Reveal(ctx, cursor); err != nil {
		return err
	}

	if interactive, flagErr := cmd.Flags().GetBool("interactive"); flagErr == nil && interactive {
		browser := newBrowser(sess, engine, relation, depth, cmd.OutOrStdout())
		return browser.Run(ctx, os.Stdin, cmd.OutOrStdout())
	}

	tree := CollectTree(ctx, engine, depth)
	if asJSON, flagErr := cmd.Flags().GetBool("json"); flagErr == nil && asJSON {
		return fileutil.PrintJSONTo(cmd.OutOrStdout(), tree)
	}
	PrintTree(cmd.OutOrStdout(), tree)
	return nil
}

func qualifiedFlag(cmd *cobra.Command) bool {
	qualified, err := cmd.Flags().GetBool("qualified")
	return err == nil && qualified
}
