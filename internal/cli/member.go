package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ArticleScorer/internal/domain"
)

func newMemberCommand(e env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage organization memberships",
	}
	cmd.AddCommand(newMemberSetCommand(e))
	cmd.AddCommand(newMemberRemoveCommand(e))
	return cmd
}

func newMemberSetCommand(e env) *cobra.Command {
	var org, user, role string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Add a user to an organization or change their role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := domain.Role(role)
			switch r {
			case domain.RoleOwner, domain.RoleAdmin, domain.RoleMember:
			default:
				return fmt.Errorf("unknown role %q (owner, admin, member)", role)
			}

			application, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			err = application.Members().SaveMembership(cmd.Context(), domain.Membership{
				OrganizationID: org,
				UserID:         user,
				Role:           r,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is %s of %s\n", user, r, org)
			return nil
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "Organization ID")
	cmd.Flags().StringVar(&user, "user", "", "User identity")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "owner, admin or member")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newMemberRemoveCommand(e env) *cobra.Command {
	var org, user string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove a user from an organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.Members().RemoveMembership(cmd.Context(), org, user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s removed from %s\n", user, org)
			return nil
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "Organization ID")
	cmd.Flags().StringVar(&user, "user", "", "User identity")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
